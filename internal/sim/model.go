package sim

// Normal behavior model kinds as they appear in the normal-models input.
const (
	ModelSingle     = "single"
	ModelFanOut     = "fan_out"
	ModelFanIn      = "fan_in"
	ModelMutual     = "mutual"
	ModelForward    = "forward"
	ModelPeriodical = "periodical"
)

// TransactionModel decides, for the group that owns it, whether and how much
// money moves when the group's main account is stepped.
type TransactionModel interface {
	// ModelName returns the model name for logging.
	ModelName() string

	// SendTransactions emits the transfers due at the given step. acct is
	// the account whose step triggered the group.
	SendTransactions(step int64, acct *Account)
}

// baseModel carries the fields shared by every behavior model: the owning
// context, the transaction interval and the active window.
type baseModel struct {
	ctx       *Context
	interval  int64
	startStep int64
	endStep   int64
}

// setParameters stores the interval and window. A negative start step is
// replaced by a decentralized random offset in [0, interval) so that models
// with the same interval do not fire in lockstep.
func (m *baseModel) setParameters(interval int64, start, end int64) {
	if interval <= 0 {
		interval = 1
	}
	m.interval = interval
	m.startStep = start
	m.endStep = end
	if m.startStep < 0 {
		m.startStep = m.ctx.generateStartStep(interval)
	}
}

// validStep reports whether the cadence fires at the given step.
func (m *baseModel) validStep(step int64) bool {
	return (step-m.startStep)%m.interval == 0
}

// numberOfTransactions returns the assumed total number of transactions this
// model makes over the whole run.
func (m *baseModel) numberOfTransactions() int64 {
	return m.ctx.NumSteps / m.interval
}

// stepRange returns the number of steps in the model's valid period, using
// the full horizon for open-ended bounds.
func (m *baseModel) stepRange() int64 {
	st := m.startStep
	if st < 0 {
		st = 0
	}
	ed := m.endStep
	if ed <= 0 {
		ed = m.ctx.NumSteps
	}
	return ed - st + 1
}

// NewNormalModel builds the behavior model for a plain (non-typology)
// account group. Unrecognized kinds produce the no-op EmptyModel.
func NewNormalModel(ctx *Context, kind string, group *AccountGroup, interval, start, end int64) TransactionModel {
	base := baseModel{ctx: ctx}
	switch kind {
	case ModelSingle:
		m := &SingleModel{baseModel: base, group: group}
		m.configure(interval, start, end)
		return m
	case ModelFanOut:
		m := &FanOutModel{baseModel: base, group: group}
		m.setParameters(interval, start, end)
		return m
	case ModelFanIn:
		m := &FanInModel{baseModel: base, group: group}
		m.setParameters(interval, start, end)
		return m
	case ModelMutual:
		m := &MutualModel{baseModel: base, group: group}
		m.setParameters(interval, start, end)
		return m
	case ModelForward:
		m := &ForwardModel{baseModel: base, group: group}
		m.setParameters(interval, start, end)
		return m
	case ModelPeriodical:
		m := &PeriodicalModel{baseModel: base, group: group}
		m.setParameters(interval, start, end)
		return m
	default:
		ctx.Log.Warn("unknown normal model kind, using empty model", "kind", kind)
		m := &EmptyModel{baseModel: base}
		m.setParameters(interval, start, end)
		return m
	}
}

// EmptyModel makes no transactions. It stands in for invalid or
// unrecognized configuration.
type EmptyModel struct {
	baseModel
}

// ModelName implements TransactionModel.
func (m *EmptyModel) ModelName() string { return "Default" }

// SendTransactions implements TransactionModel as a no-op.
func (m *EmptyModel) SendTransactions(step int64, acct *Account) {}
