package operation

import "time"

// View shapes mirror what the boundary returns to callers. Dates render as
// yyyy-mm-dd and meeting times as h:mm AM/PM, with times emitted only when
// their has-been-set flag is set so "midnight" and "unset" stay distinct.

type OperationView struct {
	OperationNumber       string           `json:"operationNumber"`
	EligibilitySubmission *EligibilityView `json:"eligibilitySubmission,omitempty"`
	PPDocuments           []Document       `json:"ppDocuments,omitempty"`
	PPDisclosedDocuments  []Document       `json:"ppDisclosedDocuments,omitempty"`
}

type EligibilityView struct {
	CirculationPeriod        CirculationPeriodView `json:"circulationPeriod"`
	DocPreparationProcessing *DocProcessingView    `json:"docPreparationProcessing,omitempty"`
}

type CirculationPeriodView struct {
	StartDate string      `json:"startDate,omitempty"`
	EndDate   string      `json:"endDate,omitempty"`
	Meeting   MeetingView `json:"meeting"`
}

type MeetingView struct {
	Date          string `json:"date,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	Justification string `json:"justification,omitempty"`
	MeetingLink   string `json:"meetingLink,omitempty"`
}

type DocProcessingView struct {
	IsIcapPaciRequired *bool  `json:"isIcapPaciRequired"`
	ProcessingTrack    string `json:"processingTrack,omitempty"`
}

const clockLayout = "3:04 PM"

// NewOperationView projects the aggregate for the read endpoints.
func NewOperationView(op *Operation) OperationView {
	view := OperationView{
		OperationNumber:      op.OperationNumber(),
		PPDocuments:          op.PPDocuments(),
		PPDisclosedDocuments: op.PPDisclosedDocuments(),
	}
	if sub := op.EligibilitySubmission(); sub != nil {
		ev := NewEligibilityView(*sub)
		view.EligibilitySubmission = &ev
	}
	return view
}

// NewEligibilityView formats a submission for the eligibility read endpoint.
// The processing block is present only when the ICAP/PACI flag was submitted.
func NewEligibilityView(sub EligibilitySubmission) EligibilityView {
	view := EligibilityView{
		CirculationPeriod: CirculationPeriodView{
			StartDate: formatDate(sub.StartDate),
			EndDate:   formatDate(sub.EndDate),
			Meeting: MeetingView{
				Date:          formatDate(sub.MeetingStartTime),
				Justification: deref(sub.MeetingJustification),
				MeetingLink:   deref(sub.MeetingLink),
			},
		},
	}
	if sub.StartTimeSet && sub.MeetingStartTime != nil {
		view.CirculationPeriod.Meeting.StartTime = sub.MeetingStartTime.Format(clockLayout)
	}
	if sub.EndTimeSet && sub.MeetingEndTime != nil {
		view.CirculationPeriod.Meeting.EndTime = sub.MeetingEndTime.Format(clockLayout)
	}
	if sub.IsIcapPaciRequired != nil {
		view.DocPreparationProcessing = &DocProcessingView{
			IsIcapPaciRequired: sub.IsIcapPaciRequired,
			ProcessingTrack:    deref(sub.ProcessingTrack),
		}
	}
	return view
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
