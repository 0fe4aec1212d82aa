package requests

// OpType names a single tree or navigation operation in a script
type OpType string

const (
	AddFolderOp  OpType = "addFolder"
	AddFileOp    OpType = "addFile"
	RenameOp     OpType = "rename"
	DeleteOp     OpType = "delete"
	SetContentOp OpType = "setContent"
	VisitOp      OpType = "visit"
	BackOp       OpType = "back"
	ForwardOp    OpType = "forward"
)

func (t OpType) valid() bool {
	switch t {
	case AddFolderOp, AddFileOp, RenameOp, DeleteOp, SetContentOp, VisitOp, BackOp, ForwardOp:
		return true
	}
	return false
}

// OpDTO is the JSON/YAML representation of [Op]
//
// The item an op works on is given either by "id" or by "path". For the add
// ops "parent" or "path" name the folder the new item goes into, defaulting to
// the root.
type OpDTO struct {
	Op        OpType  `json:"op" yaml:"op"`
	ID        *int    `json:"id,omitempty" yaml:"id,omitempty"`
	Parent    *int    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Path      *string `json:"path,omitempty" yaml:"path,omitempty"`
	Name      *string `json:"name,omitempty" yaml:"name,omitempty"`
	Content   *string `json:"content,omitempty" yaml:"content,omitempty"`
	RequestID *string `json:"request_id,omitempty" yaml:"request_id,omitempty"` // Defaults to a random UUID
}

// Op is a validated script operation with defaults applied
type Op struct {
	Type      OpType
	RequestID string
	ID        *int
	Parent    *int
	Path      *string
	Name      string
	Content   *string
}
