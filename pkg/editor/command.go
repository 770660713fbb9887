package editor

import "github.com/aretw0/missionkit/pkg/domain"

// Op names an editor command.
type Op string

const (
	OpAddStep      Op = "add_step"
	OpRemoveStep   Op = "remove_step"
	OpUpdateField  Op = "update_field"
	OpMoveStep     Op = "move_step"
	OpConnect      Op = "connect"
	OpDisconnect   Op = "disconnect"
	OpLoadTemplate Op = "load_template"
	OpSelect       Op = "select"
	OpDeselect     Op = "deselect"
	OpBeginDrag    Op = "begin_drag"
	OpDragOver     Op = "drag_over"
	OpDrop         Op = "drop"
	OpCancelDrag   Op = "cancel_drag"
)

// Ops lists every command in a stable order.
var Ops = []Op{
	OpAddStep, OpRemoveStep, OpUpdateField, OpMoveStep, OpConnect, OpDisconnect,
	OpLoadTemplate, OpSelect, OpDeselect, OpBeginDrag, OpDragOver, OpDrop, OpCancelDrag,
}

// Command is a single interaction event. Which fields matter depends on Op.
type Command struct {
	Op Op `json:"op" yaml:"op" mapstructure:"op"`

	// StepID is the subject step; for connect and disconnect it is the source.
	StepID   string `json:"step_id,omitempty" yaml:"step_id,omitempty" mapstructure:"step_id"`
	TargetID string `json:"target_id,omitempty" yaml:"target_id,omitempty" mapstructure:"target_id"`

	Kind  domain.Kind `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Field string      `json:"field,omitempty" yaml:"field,omitempty" mapstructure:"field"`
	Value any         `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`

	// Position is in canvas space. Pointer and Origin are viewport coordinates.
	Position *domain.Position `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	Pointer  *domain.Position `json:"pointer,omitempty" yaml:"pointer,omitempty" mapstructure:"pointer"`
	Origin   domain.Position  `json:"origin,omitzero" yaml:"origin,omitempty" mapstructure:"origin"`

	TemplateID string `json:"template_id,omitempty" yaml:"template_id,omitempty" mapstructure:"template_id"`
}

// Mutates reports whether the op can change the persisted session.
func (o Op) Mutates() bool {
	return o != OpDragOver
}

// Result reports the outcome of a command.
type Result struct {
	Op Op `json:"op"`
	// Applied is false when the command referenced something that does not exist.
	Applied bool `json:"applied"`
	// StepID is the id created by add_step.
	StepID string `json:"step_id,omitempty"`
	// Preview is the would-be drop position computed by drag_over.
	Preview *domain.Position `json:"preview,omitempty"`
	Changes []domain.Change  `json:"changes,omitempty"`
}
