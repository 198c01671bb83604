// Package wire implements the line-oriented billing protocol: one
// pipe-delimited request line per connection, one SUCCESS:/ERROR:
// response line back.
package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gyeh/medibill/internal/billing"
)

const (
	// Delimiter separates fields within a request or success payload.
	Delimiter = "|"

	// SuccessPrefix marks a response carrying a bill breakdown.
	SuccessPrefix = "SUCCESS:"

	// ErrorPrefix marks a response carrying a failure message.
	ErrorPrefix = "ERROR:"

	// Greeting is sent by the server immediately on connect, before the
	// request is read. It is not part of the request/response pair.
	Greeting = "CONNECTED:MediCare Billing Server Ready"

	requestFields  = 4
	responseFields = 9
)

// Decode faults for the request and response formats.
var (
	ErrMalformedRequest  = errors.New("malformed request: expected 4 pipe-delimited fields")
	ErrInvalidPatientID  = errors.New("invalid patient id: must be a positive integer")
	ErrMalformedResponse = errors.New("malformed response payload")
	ErrUnknownResponse   = errors.New("unknown response framing")
)

// ServerError is a decoded ERROR: response.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}

// Request is one decoded billing request line. Category and ServiceCode
// are structurally parsed only; validating them against the closed
// enumerations is the connection handler's job.
type Request struct {
	PatientID   int
	VisitDate   string
	Category    string
	ServiceCode string
}

// DecodeRequest parses `patientId|visitDate|patientCategory|serviceCode`.
// Fields are trimmed and the service code uppercased. Exactly 4 fields
// are required and the patient id must parse as a positive integer.
func DecodeRequest(line string) (Request, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) != requestFields {
		return Request{}, ErrMalformedRequest
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || id <= 0 {
		return Request{}, ErrInvalidPatientID
	}

	return Request{
		PatientID:   id,
		VisitDate:   strings.TrimSpace(parts[1]),
		Category:    strings.TrimSpace(parts[2]),
		ServiceCode: billing.NormalizeServiceCode(parts[3]),
	}, nil
}

// EncodeRequest renders a request line.
func EncodeRequest(r Request) string {
	return fmt.Sprintf("%d%s%s%s%s%s%s",
		r.PatientID, Delimiter, r.VisitDate, Delimiter, r.Category, Delimiter, r.ServiceCode)
}

// EncodeSuccess renders a breakdown as a SUCCESS: line with the 9 payload
// fields in fixed order, monetary fields at exactly 2 decimals.
func EncodeSuccess(b billing.Breakdown) string {
	fields := []string{
		b.ServiceCode,
		billing.FormatAmount(b.BaseFee),
		b.Plan.Name,
		billing.FormatAmount(b.ProportionalDiscount),
		billing.FormatAmount(b.FlatDiscount),
		billing.FormatAmount(b.TotalDiscount),
		b.Category.Name,
		billing.FormatAmount(b.Surcharge),
		billing.FormatAmount(b.FinalAmount),
	}
	return SuccessPrefix + strings.Join(fields, Delimiter)
}

// EncodeError renders a failure message as an ERROR: line.
func EncodeError(msg string) string {
	return ErrorPrefix + msg
}

// DecodeResponse parses one response line. A SUCCESS: line yields the
// breakdown; an ERROR: line yields a *ServerError; anything else is
// ErrUnknownResponse.
func DecodeResponse(line string) (billing.Breakdown, error) {
	switch {
	case strings.HasPrefix(line, SuccessPrefix):
		return decodeSuccessPayload(strings.TrimPrefix(line, SuccessPrefix))
	case strings.HasPrefix(line, ErrorPrefix):
		return billing.Breakdown{}, &ServerError{Message: strings.TrimPrefix(line, ErrorPrefix)}
	default:
		return billing.Breakdown{}, ErrUnknownResponse
	}
}

func decodeSuccessPayload(payload string) (billing.Breakdown, error) {
	parts := strings.Split(payload, Delimiter)
	if len(parts) != responseFields {
		return billing.Breakdown{}, fmt.Errorf("%w: got %d fields, want %d",
			ErrMalformedResponse, len(parts), responseFields)
	}

	plan, ok := billing.PlanByName(parts[2])
	if !ok {
		return billing.Breakdown{}, fmt.Errorf("%w: unknown coverage plan %q",
			ErrMalformedResponse, parts[2])
	}
	category, ok := billing.CategoryByName(parts[6])
	if !ok {
		return billing.Breakdown{}, fmt.Errorf("%w: unknown patient category %q",
			ErrMalformedResponse, parts[6])
	}

	b := billing.Breakdown{
		ServiceCode: strings.TrimSpace(parts[0]),
		Plan:        plan,
		Category:    category,
	}
	for _, field := range []struct {
		idx  int
		dest *float64
	}{
		{1, &b.BaseFee},
		{3, &b.ProportionalDiscount},
		{4, &b.FlatDiscount},
		{5, &b.TotalDiscount},
		{7, &b.Surcharge},
		{8, &b.FinalAmount},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[field.idx]), 64)
		if err != nil {
			return billing.Breakdown{}, fmt.Errorf("%w: field %d %q is not numeric",
				ErrMalformedResponse, field.idx, parts[field.idx])
		}
		*field.dest = v
	}
	return b, nil
}
