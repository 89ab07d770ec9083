package engine

// Stage names the step of a pricing call a trace event comes from.
type Stage string

const (
	StageFit      Stage = "fit"
	StageSearch   Stage = "search"
	StageOversize Stage = "oversize"
	StageCharging Stage = "charging"
	StageVolume   Stage = "volume"
	StagePrice    Stage = "price"
	StagePartial  Stage = "partial"
)

// TraceField is one numeric value attached to a trace event.
type TraceField struct {
	Key   string
	Value float64
}

// TraceEvent is an intermediate value reported while pricing.
type TraceEvent struct {
	Stage   Stage
	Message string
	Fields  []TraceField
}

// Tracer receives trace events. It is called synchronously and must not
// retain the event's Fields slice.
type Tracer func(TraceEvent)

func num(key string, v float64) TraceField {
	return TraceField{Key: key, Value: v}
}

func (p *Pricer) trace(stage Stage, msg string, fields ...TraceField) {
	if p.tracer == nil {
		return
	}
	p.tracer(TraceEvent{Stage: stage, Message: msg, Fields: fields})
}
