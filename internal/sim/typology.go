package sim

import (
	"fmt"
	"slices"
)

// Typology model IDs as they appear in the alert-members input.
const (
	TypologyFanOut        = 1
	TypologyFanIn         = 2
	TypologyCycle         = 3
	TypologyBipartite     = 4
	TypologyStack         = 5
	TypologyRandom        = 6
	TypologyScatterGather = 7 // fan-out -> fan-in
	TypologyGatherScatter = 8 // fan-in -> fan-out
)

// Transaction scheduling policy IDs.
const (
	// ScheduleFixedInterval spaces transactions evenly across the window.
	ScheduleFixedInterval = 0
	// ScheduleRandomInterval draws random steps and sorts them ascending.
	ScheduleRandomInterval = 1
	// ScheduleUnordered draws random steps without ordering.
	ScheduleUnordered = 2
	// ScheduleSimultaneous performs all transactions at one random step.
	ScheduleSimultaneous = 3
)

// Typology is a suspicious transaction model bound to one alert group. It is
// configured exactly once, after the last member row for its alert has been
// ingested; past its end step it simply stops firing.
type Typology interface {
	TransactionModel

	// IsValidStep reports whether the step is within the model's window.
	IsValidStep(step int64) bool

	// Configure builds the per-member step schedule under the given
	// scheduling policy. Called exactly once per alert.
	Configure(scheduleID int)

	// Incremental widening when multiple input rows reference the same
	// alert id.
	UpdateMinAmount(v float64)
	UpdateMaxAmount(v float64)
	UpdateStartStep(v int64)
	UpdateEndStep(v int64)

	setAlert(a *Alert)
}

// NewTypology creates the typology model for the given model ID.
func NewTypology(ctx *Context, modelID int, minAmount, maxAmount float64, start, end int64) (Typology, error) {
	base := typologyBase{
		baseModel:   baseModel{ctx: ctx, interval: 1, startStep: start, endStep: end},
		minAmount:   minAmount,
		maxAmount:   maxAmount,
		marginRatio: ctx.MarginRatio,
	}
	switch modelID {
	case TypologyFanOut:
		return &FanOutTypology{typologyBase: base}, nil
	case TypologyFanIn:
		return &FanInTypology{typologyBase: base}, nil
	case TypologyCycle:
		return &CycleTypology{typologyBase: base}, nil
	case TypologyBipartite:
		return &BipartiteTypology{typologyBase: base}, nil
	case TypologyStack:
		return &StackTypology{typologyBase: base}, nil
	case TypologyRandom:
		return &RandomTypology{typologyBase: base}, nil
	case TypologyScatterGather:
		return &ScatterGatherTypology{typologyBase: base}, nil
	case TypologyGatherScatter:
		return &GatherScatterTypology{typologyBase: base}, nil
	default:
		return nil, fmt.Errorf("unknown typology model ID: %d", modelID)
	}
}

// typologyBase carries the state shared by all typology models: amount
// bounds, margin ratio and the back-reference to the owning alert.
type typologyBase struct {
	baseModel
	alert       *Alert
	minAmount   float64
	maxAmount   float64
	marginRatio float64
}

func (t *typologyBase) setAlert(a *Alert) { t.alert = a }

// IsValidStep reports whether the step lies in [startStep, endStep].
func (t *typologyBase) IsValidStep(step int64) bool {
	return t.startStep <= step && step <= t.endStep
}

// UpdateMinAmount lowers the minimum amount if the given one is smaller.
func (t *typologyBase) UpdateMinAmount(v float64) {
	if v < t.minAmount {
		t.minAmount = v
	}
}

// UpdateMaxAmount raises the maximum amount if the given one is larger.
func (t *typologyBase) UpdateMaxAmount(v float64) {
	if v > t.maxAmount {
		t.maxAmount = v
	}
}

// UpdateStartStep lowers the start step if the given one is earlier.
func (t *typologyBase) UpdateStartStep(v int64) {
	if v < t.startStep {
		t.startStep = v
	}
}

// UpdateEndStep raises the end step if the given one is later.
func (t *typologyBase) UpdateEndStep(v int64) {
	if v > t.endStep {
		t.endStep = v
	}
}

// windowRange returns the number of steps in [startStep, endStep].
func (t *typologyBase) windowRange() int64 {
	return t.endStep - t.startStep + 1
}

// randomStep draws a uniform step within the model's window.
func (t *typologyBase) randomStep() int64 {
	return t.ctx.Rand.Int63n(t.windowRange()) + t.startStep
}

// randomStepRange draws a uniform step in [start, end). A degenerate range
// collapses to start.
func (t *typologyBase) randomStepRange(start, end int64) int64 {
	r := end - start
	if r <= 0 {
		return start
	}
	return t.ctx.Rand.Int63n(r) + start
}

// randomAmount draws a uniform amount within [minAmount, maxAmount].
func (t *typologyBase) randomAmount() float64 {
	return t.ctx.Rand.Float64()*(t.maxAmount-t.minAmount) + t.minAmount
}

// buildSchedule fills one step slot per participating edge under the given
// scheduling policy. FIXED_INTERVAL spaces slots evenly; when there are more
// slots than distinct steps, slots share steps via integer-division
// batching. RANDOM_INTERVAL draws and sorts; UNORDERED draws without
// sorting; SIMULTANEOUS broadcasts one random step to every slot.
func (t *typologyBase) buildSchedule(n int, scheduleID int) []int64 {
	steps := make([]int64, n)
	if n == 0 {
		return steps
	}
	switch scheduleID {
	case ScheduleSimultaneous:
		step := t.randomStep()
		for i := range steps {
			steps[i] = step
		}
	case ScheduleFixedInterval:
		stepRange := t.windowRange()
		if int64(n) < stepRange {
			interval := stepRange / int64(n)
			for i := range steps {
				steps[i] = t.startStep + interval*int64(i)
			}
		} else {
			batch := int64(n) / stepRange
			for i := range steps {
				steps[i] = t.startStep + int64(i)/batch
			}
		}
	case ScheduleRandomInterval, ScheduleUnordered:
		for i := range steps {
			steps[i] = t.randomStep()
		}
		if scheduleID == ScheduleRandomInterval {
			slices.Sort(steps)
		}
	}
	return steps
}
