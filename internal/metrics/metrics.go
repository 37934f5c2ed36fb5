package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	studentsRegistered metric.Int64Counter
	paymentsSubmitted  metric.Int64Counter
	paymentsReviewed   metric.Int64Counter
	contactsSubmitted  metric.Int64Counter
	resultsUploaded    metric.Int64Counter
	exportsGenerated   metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.studentsRegistered, err = meter.Int64Counter(
		"deptportal.students.registered",
		metric.WithDescription("Total number of student accounts registered"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.paymentsSubmitted, err = meter.Int64Counter(
		"deptportal.payments.submitted",
		metric.WithDescription("Total number of payment claims submitted"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	m.paymentsReviewed, err = meter.Int64Counter(
		"deptportal.payments.reviewed",
		metric.WithDescription("Total number of payment status transitions"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	m.contactsSubmitted, err = meter.Int64Counter(
		"deptportal.contacts.submitted",
		metric.WithDescription("Total number of contact messages received"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	m.resultsUploaded, err = meter.Int64Counter(
		"deptportal.results.uploaded",
		metric.WithDescription("Total number of results uploaded"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return nil, err
	}

	m.exportsGenerated, err = meter.Int64Counter(
		"deptportal.exports.generated",
		metric.WithDescription("Total number of CSV exports generated"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordStudentRegistration(ctx context.Context) {
	if m != nil && m.studentsRegistered != nil {
		m.studentsRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordPaymentSubmitted(ctx context.Context) {
	if m != nil && m.paymentsSubmitted != nil {
		m.paymentsSubmitted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordPaymentReviewed(ctx context.Context) {
	if m != nil && m.paymentsReviewed != nil {
		m.paymentsReviewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordContactSubmitted(ctx context.Context) {
	if m != nil && m.contactsSubmitted != nil {
		m.contactsSubmitted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordResultUploaded(ctx context.Context) {
	if m != nil && m.resultsUploaded != nil {
		m.resultsUploaded.Add(ctx, 1)
	}
}

func (m *Metrics) RecordExportGenerated(ctx context.Context) {
	if m != nil && m.exportsGenerated != nil {
		m.exportsGenerated.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
