package operation

import (
	"fmt"
	"strings"
	"time"

	dErrors "sgprep/pkg/domain-errors"
)

// DocType discriminates which validator set runs for an eligibility request.
// Closed set; anything else is rejected by the pipeline.
type DocType string

const (
	DocTypePP      DocType = "PP"
	DocTypeMinutes DocType = "Minutes"
	DocTypeAnnex   DocType = "Annex"
)

// Known reports whether the discriminator is one of the closed set.
func (d DocType) Known() bool {
	switch d {
	case DocTypePP, DocTypeMinutes, DocTypeAnnex:
		return true
	}
	return false
}

// DocVersion selects the post-save notification for PP requests.
type DocVersion string

const (
	DocVersionApproval DocVersion = "Approval"
	DocVersionRevision DocVersion = "Revision"
)

func (d DocVersion) Known() bool {
	return d == DocVersionApproval || d == DocVersionRevision
}

// EligibilityRequest is the already-deserialized input for create and amend.
// Date and time fields arrive as raw strings; parsing happens exactly once, in
// BuildEligibilitySubmission, never inside the business rules.
type EligibilityRequest struct {
	DocType                  DocType                   `json:"docType"`
	DocVersion               DocVersion                `json:"docVersion,omitempty"`
	CirculationPeriod        *CirculationPeriodRequest `json:"circulationPeriod,omitempty"`
	DocPreparationProcessing *DocProcessingRequest     `json:"docPreparationProcessing,omitempty"`
}

// CirculationPeriodRequest carries the review circulation window.
type CirculationPeriodRequest struct {
	StartDate string          `json:"startDate,omitempty"`
	EndDate   string          `json:"endDate,omitempty"`
	Meeting   *MeetingRequest `json:"meeting,omitempty"`
}

// MeetingRequest carries the optional review meeting details.
type MeetingRequest struct {
	Date          string `json:"date,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	Justification string `json:"justification,omitempty"`
	MeetingLink   string `json:"meetingLink,omitempty"`
}

// DocProcessingRequest carries the document preparation processing block.
type DocProcessingRequest struct {
	IsIcapPaciRequired *bool  `json:"isIcapPaciRequired,omitempty"`
	ProcessingTrack    string `json:"processingTrack,omitempty"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// processingTrackNames maps request track tags to their canonical stored names.
var processingTrackNames = map[string]string{
	"standard":  "Standard",
	"expedited": "Expedited",
	"delegated": "Delegated",
}

// CanonicalProcessingTrack resolves a request track tag to its stored name.
// Blank input means no track; unknown tags are kept verbatim so a rename in
// the upstream catalogue does not silently drop data.
func CanonicalProcessingTrack(track string) *string {
	track = strings.TrimSpace(track)
	if track == "" {
		return nil
	}
	if name, ok := processingTrackNames[strings.ToLower(track)]; ok {
		return &name
	}
	return &track
}

// ParseCirculationDate parses a calendar date string. Empty or whitespace-only
// input is "no date", never a parse error; anything else must be a valid
// yyyy-mm-dd date.
func ParseCirculationDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid date %q, expected yyyy-mm-dd", s))
	}
	return &t, nil
}

// ComposeMeetingTime combines a calendar date and a time-of-day string into a
// single timestamp. A blank time component yields nil: the caller tracks
// "time was provided" separately so midnight stays distinguishable from unset.
// No timezone conversion happens here; normalization is a collaborator's job.
func ComposeMeetingTime(date, timeOfDay string) (*time.Time, error) {
	timeOfDay = strings.TrimSpace(timeOfDay)
	if timeOfDay == "" {
		return nil, nil
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "a meeting time was given without a meeting date")
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid meeting date %q, expected yyyy-mm-dd", date))
	}
	tod, err := time.Parse(timeLayout, timeOfDay)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid meeting time %q, expected hh:mm", timeOfDay))
	}
	composed := time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC)
	return &composed, nil
}

// BuildEligibilitySubmission transforms a validated request into the submission
// state the aggregate records: dates parsed once, meeting timestamps composed
// from date + time-of-day, free text trimmed, the processing track mapped to
// its canonical name, and the ICAP/PACI flag passed through unchanged
// (including nil). Pure transformation; nothing is persisted here.
func BuildEligibilitySubmission(req EligibilityRequest) (EligibilitySubmission, error) {
	var sub EligibilitySubmission

	cp := req.CirculationPeriod
	if cp != nil {
		start, err := ParseCirculationDate(cp.StartDate)
		if err != nil {
			return EligibilitySubmission{}, err
		}
		end, err := ParseCirculationDate(cp.EndDate)
		if err != nil {
			return EligibilitySubmission{}, err
		}
		sub.StartDate = start
		sub.EndDate = end

		if m := cp.Meeting; m != nil {
			startTime, err := ComposeMeetingTime(m.Date, m.StartTime)
			if err != nil {
				return EligibilitySubmission{}, err
			}
			endTime, err := ComposeMeetingTime(m.Date, m.EndTime)
			if err != nil {
				return EligibilitySubmission{}, err
			}
			sub.StartTimeSet = strings.TrimSpace(m.StartTime) != ""
			sub.EndTimeSet = strings.TrimSpace(m.EndTime) != ""
			sub.MeetingStartTime = startTime
			sub.MeetingEndTime = endTime
			sub.MeetingJustification = trimmed(m.Justification)
			sub.MeetingLink = trimmed(m.MeetingLink)
		}
	}

	if dp := req.DocPreparationProcessing; dp != nil {
		sub.IsIcapPaciRequired = dp.IsIcapPaciRequired
		sub.ProcessingTrack = CanonicalProcessingTrack(dp.ProcessingTrack)
	}

	return sub, nil
}

// trimmed trims incidental whitespace, mapping blank strings to nil.
func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
