package models

// ActionType enumerates the operations the agent can perform on the farm.
// The value is the literal action name the language model is prompted to emit.
type ActionType string

const (
	ActionAddCattle           ActionType = "addCattle"
	ActionUpdateCattle        ActionType = "updateCattle"
	ActionDeleteCattle        ActionType = "deleteCattle"
	ActionGetCattleInfo       ActionType = "getCattleInfo"
	ActionGetAllCattle        ActionType = "getAllCattle"
	ActionAddWeightRecord     ActionType = "addWeightRecord"
	ActionAddBarn             ActionType = "addBarn"
	ActionAddPen              ActionType = "addPen"
	ActionUpdatePen           ActionType = "updatePen"
	ActionDeletePen           ActionType = "deletePen"
	ActionGetPenInfo          ActionType = "getPenInfo"
	ActionGetCattleCountByPen ActionType = "getCattleCountByPen"
	ActionAddMedication       ActionType = "addMedication"
	ActionGetInventoryInfo    ActionType = "getInventoryInfo"
	ActionAddHealthRecord     ActionType = "addHealthRecord"
	ActionLogActivity         ActionType = "logActivity"
	ActionGetFarmSummary      ActionType = "getFarmSummary"
)

// ActionDescriptor is the structured payload recovered from a language
// model's free-text response: which operation to run, its loose parameters,
// and the user-facing sentence the model wants shown alongside the result.
type ActionDescriptor struct {
	Action  ActionType     `json:"action"`
	Params  map[string]any `json:"params"`
	Message string         `json:"message"`
}

// ActionResult is the uniform outcome shape every executor action returns.
// Failures are data, not errors: the executor never lets a store exception
// escape as a Go error to the caller.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
