package email

const (
	subjectLeadConverted    = "Lead converted"
	subjectLeadFinalized    = "Lead processing completed"
	subjectMeetingScheduled = "Meeting scheduled"
)
