package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/medibill/internal/billing"
	"github.com/gyeh/medibill/internal/store"
	"github.com/gyeh/medibill/internal/wire"
)

// Error texts sent to the peer. The wording follows the protocol's
// existing clients, which pattern-match on these messages.
const (
	msgMalformedRequest = "Invalid request format. Expected: patientId|visitDate|patientType|serviceCode"
	msgInvalidPatientID = "Invalid patient ID. Must be a number."
	msgInvalidDate      = "Invalid visit date. Expected format: YYYY-MM-DD."
	msgPatientNotFound  = "Patient ID not found in database."
	msgStoreUnavailable = "Database connection failed."
	msgCalculateFailed  = "Failed to calculate bill."
	msgPersistFailed    = "Failed to save bill to database."
)

// These two enumerate the closed tables, so they stay vars.
var (
	msgInvalidService  = "Invalid service code. Valid codes: " + strings.Join(billing.ServiceCodes(), ", ")
	msgInvalidCategory = "Invalid patient type. Valid types: " + strings.Join(billing.CategoryNames(), ", ")
)

// handle runs one connection through its full lifecycle: greeting,
// request, validation, pricing, persist, response. Exactly one response
// line is written unless the peer disconnects before sending a request.
// The connection is closed on every exit path.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	log := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	// One deadline covers the whole exchange; a peer that stalls at any
	// point gets cut off rather than pinning a goroutine.
	if err := conn.SetDeadline(time.Now().Add(s.ioTimeout)); err != nil {
		log.Warn().Err(err).Msg("set deadline failed")
		return
	}

	w := bufio.NewWriter(conn)
	if !s.writeLine(w, log, wire.Greeting) {
		return
	}

	line, err := readRequestLine(conn)
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Debug().Msg("peer closed before sending a request")
		} else {
			log.Warn().Err(err).Msg("request read failed")
		}
		return
	}
	log.Info().Str("request", line).Msg("request received")

	req, err := wire.DecodeRequest(line)
	switch {
	case errors.Is(err, wire.ErrMalformedRequest):
		s.respondError(w, log, msgMalformedRequest)
		return
	case errors.Is(err, wire.ErrInvalidPatientID):
		s.respondError(w, log, msgInvalidPatientID)
		return
	case err != nil:
		s.respondError(w, log, msgMalformedRequest)
		return
	}

	// Semantic validation happens here, before the engine or the store
	// ever see the values.
	if !billing.ValidServiceCode(req.ServiceCode) {
		s.respondError(w, log, msgInvalidService)
		return
	}
	category, ok := billing.CategoryByName(req.Category)
	if !ok {
		s.respondError(w, log, msgInvalidCategory)
		return
	}
	if _, err := time.Parse("2006-01-02", req.VisitDate); err != nil {
		s.respondError(w, log, msgInvalidDate)
		return
	}

	plan, err := s.store.LookupCoveragePlan(ctx, req.PatientID)
	if errors.Is(err, store.ErrPatientNotFound) {
		log.Info().Int("patient_id", req.PatientID).Msg("patient not found")
		s.respondError(w, log, msgPatientNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Int("patient_id", req.PatientID).Msg("coverage plan lookup failed")
		s.respondError(w, log, msgStoreUnavailable)
		return
	}

	breakdown, err := billing.ComputeBill(req.ServiceCode, plan, category)
	if err != nil {
		// The code and category were validated above, so this is an
		// internal consistency fault, not a client error.
		log.Error().Err(err).Msg("bill computation failed after validation")
		s.respondError(w, log, msgCalculateFailed)
		return
	}

	if err := s.store.AppendBill(ctx, req.PatientID, req.VisitDate, billing.ToCents(breakdown.FinalAmount)); err != nil {
		log.Error().Err(err).Int("patient_id", req.PatientID).Msg("bill persist failed")
		s.respondError(w, log, msgPersistFailed)
		return
	}

	if s.writeLine(w, log, wire.EncodeSuccess(breakdown)) {
		log.Info().
			Int("patient_id", req.PatientID).
			Str("service_code", breakdown.ServiceCode).
			Str("plan", plan.Name).
			Str("final_amount", billing.FormatAmount(breakdown.FinalAmount)).
			Msg("bill processed")
	}
}

// readRequestLine reads exactly one newline-terminated request line. A
// final line without a trailing newline is still accepted.
func readRequestLine(conn net.Conn) (string, error) {
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// respondError writes a single ERROR: line. Write failures are logged
// only; the peer cannot be informed once the channel is broken.
func (s *Server) respondError(w *bufio.Writer, log zerolog.Logger, msg string) {
	if s.writeLine(w, log, wire.EncodeError(msg)) {
		log.Info().Str("error", msg).Msg("request rejected")
	}
}

func (s *Server) writeLine(w *bufio.Writer, log zerolog.Logger, line string) bool {
	_, err := w.WriteString(line + "\n")
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		log.Warn().Err(err).Msg("response write failed")
		return false
	}
	return true
}
