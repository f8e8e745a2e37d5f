package email

const (
	subjectAssignmentNoticeFmt = "Nuevo reporte asignado a %s"
)
