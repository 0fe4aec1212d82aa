package requests

import (
	"context"
	"fmt"

	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/util"
	"github.com/brettbedarf/memfs/session"
)

// NoItem is the Result.ItemID of ops that did not resolve to an item
const NoItem = -1

// Result is the outcome of one applied op
type Result struct {
	RequestID string
	Op        OpType
	ItemID    int
	Err       error
}

// Apply runs ops against s in order. A failing op is logged and recorded in its
// Result; the remaining ops still run.
func Apply(ctx context.Context, s *session.Session, ops []Op) []Result {
	logger := util.GetLogger("Requests.Apply")

	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		item, err := applyOp(ctx, s, op)
		res := Result{RequestID: op.RequestID, Op: op.Type, ItemID: NoItem, Err: err}
		if item != nil {
			res.ItemID = item.ID()
		}
		if err != nil {
			logger.Error().Err(err).Str("request_id", op.RequestID).Str("op", string(op.Type)).Msg("Op failed")
		} else {
			logger.Debug().Str("request_id", op.RequestID).Str("op", string(op.Type)).Int("id", res.ItemID).Msg("Op applied")
		}
		results = append(results, res)
	}
	return results
}

func applyOp(ctx context.Context, s *session.Session, op Op) (filesystem.Item, error) {
	switch op.Type {
	case AddFolderOp:
		parentID, err := op.parentID(s)
		if err != nil {
			return nil, err
		}
		f, err := s.AddFolder(ctx, op.Name, parentID)
		if f == nil {
			return nil, err
		}
		return f, err
	case AddFileOp:
		parentID, err := op.parentID(s)
		if err != nil {
			return nil, err
		}
		f, err := s.AddFile(ctx, op.Name, parentID, op.Content)
		if f == nil {
			return nil, err
		}
		return f, err
	case RenameOp:
		it, err := op.target(s)
		if err != nil {
			return nil, err
		}
		return it, s.RenameItem(ctx, it.ID(), op.Name)
	case SetContentOp:
		it, err := op.target(s)
		if err != nil {
			return nil, err
		}
		return it, s.SetFileContent(ctx, it.ID(), util.ValueOrDefault(op.Content, ""))
	case DeleteOp:
		it, err := op.target(s)
		if err != nil {
			return nil, err
		}
		if _, err := s.Delete(ctx, it.ID()); err != nil {
			return it, err
		}
		return it, nil
	case VisitOp:
		it, err := op.target(s)
		if err != nil {
			return nil, err
		}
		return s.Visit(it.ID())
	case BackOp:
		return s.Back()
	case ForwardOp:
		return s.Forward()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
}

// target resolves the item an op works on
func (op Op) target(s *session.Session) (filesystem.Item, error) {
	var it filesystem.Item
	switch {
	case op.ID != nil:
		it = s.GetItemByID(*op.ID)
		if it == nil {
			return nil, fmt.Errorf("%w: %d", filesystem.ErrNotFound, *op.ID)
		}
	case op.Path != nil:
		it = s.GetItemByPath(*op.Path)
		if it == nil {
			return nil, fmt.Errorf("%w: %q", filesystem.ErrNotFound, *op.Path)
		}
	default:
		return nil, ErrMissingTarget
	}
	return it, nil
}

// parentID resolves the folder an add op puts its item into
func (op Op) parentID(s *session.Session) (int, error) {
	switch {
	case op.Parent != nil:
		return *op.Parent, nil
	case op.Path != nil:
		it := s.GetItemByPath(*op.Path)
		if it == nil {
			return 0, fmt.Errorf("%w: %q", filesystem.ErrParentNotFound, *op.Path)
		}
		return it.ID(), nil
	}
	return filesystem.RootID, nil
}
