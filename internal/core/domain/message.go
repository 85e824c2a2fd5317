package domain

// Message types exchanged between the host and a worker.
const (
	// MsgEvaluate asks the worker to run a script.
	MsgEvaluate = "evaluate"
	// MsgCombineAndRender asks the worker to tessellate the last accumulated scene.
	MsgCombineAndRender = "combineAndRenderShapes"
	// MsgStats asks the worker for cache and timing statistics.
	MsgStats = "stats"
	// MsgShutdown stops the worker loop.
	MsgShutdown = "shutdown"

	// MsgProgress reports the running operation counter.
	MsgProgress = "Progress"
	// MsgResetWorking is emitted once when an evaluation finalizes.
	MsgResetWorking = "resetWorking"
	// MsgStartup is emitted once the worker's kernel is ready.
	MsgStartup = "startupCallback"
	// MsgError reports a failed evaluation.
	MsgError = "error"
	// MsgLog carries a line printed by user code.
	MsgLog = "log"

	// MsgAddSlider declares a numeric slider control.
	MsgAddSlider = "addSlider"
	// MsgAddCheckbox declares a boolean control.
	MsgAddCheckbox = "addCheckbox"
	// MsgAddTextbox declares a text control.
	MsgAddTextbox = "addTextbox"
	// MsgAddDropdown declares a choice control.
	MsgAddDropdown = "addDropdown"
	// MsgAddButton declares a momentary button control.
	MsgAddButton = "addButton"
)

// Message is the envelope of every protocol exchange. Payload holds plain
// structured data once it has crossed a connection.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// EvaluatePayload is the payload of an evaluate request.
type EvaluatePayload struct {
	Code     string   `json:"code"`
	GUIState GUIState `json:"guiState"`
	// NoCache disables the operation cache for this run regardless of GUI state.
	NoCache bool `json:"noCache,omitempty"`
}

// EvaluateResult is echoed back when an evaluation finishes.
type EvaluateResult struct {
	Session    string `json:"session"`
	Succeeded  bool   `json:"succeeded"`
	Operations int    `json:"operations"`
	Shapes     int    `json:"shapes"`
	Evicted    int    `json:"evicted"`
}

// ProgressPayload reports the operation counter. An empty OpType marks the end of a phase.
type ProgressPayload struct {
	OpNumber int    `json:"opNumber"`
	OpType   string `json:"opType"`
}

// ErrorPayload describes a failed evaluation.
type ErrorPayload struct {
	Message   string `json:"message"`
	Operation string `json:"operation"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Session   string `json:"session"`
}

// LogPayload carries a line printed by user code.
type LogPayload struct {
	Message string `json:"message"`
}

// RenderRequest is the payload of a combineAndRenderShapes request.
type RenderRequest struct {
	MaxDeviation float64 `json:"maxDeviation"`
}

// RenderResult is the tessellated scene.
type RenderResult struct {
	Mesh
	EdgeCount int `json:"edgeCount"`
	FaceCount int `json:"faceCount"`
}

// StatsResult is the payload echoed for a stats request.
type StatsResult struct {
	Cache   CacheStats          `json:"cache"`
	Timings map[string]OpTiming `json:"timings"`
}
