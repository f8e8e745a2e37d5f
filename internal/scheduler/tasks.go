package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAssignmentRepair = "brigades.assignment.repair"

const TaskAssignmentNotice = "brigades.assignment.notice"

type AssignmentRepairPayload struct {
	BrigadeID string `json:"brigadeId"`
	ReportID  string `json:"reportId"`
}

type AssignmentNoticePayload struct {
	BrigadeID   string    `json:"brigadeId"`
	BrigadeName string    `json:"brigadeName"`
	ReportID    string    `json:"reportId"`
	Category    string    `json:"category"`
	Address     string    `json:"address"`
	AssignedBy  string    `json:"assignedBy"`
	AssignedAt  time.Time `json:"assignedAt"`
	LeadName    string    `json:"leadName"`
	LeadEmail   string    `json:"leadEmail"`
}

func NewAssignmentRepairTask(payload AssignmentRepairPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssignmentRepair, data), nil
}

func ParseAssignmentRepairPayload(task *asynq.Task) (AssignmentRepairPayload, error) {
	var payload AssignmentRepairPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AssignmentRepairPayload{}, err
	}
	return payload, nil
}

func NewAssignmentNoticeTask(payload AssignmentNoticePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssignmentNotice, data), nil
}

func ParseAssignmentNoticePayload(task *asynq.Task) (AssignmentNoticePayload, error) {
	var payload AssignmentNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AssignmentNoticePayload{}, err
	}
	return payload, nil
}
