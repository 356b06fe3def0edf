package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"questflow/internal/db"
	"questflow/internal/model"

	"go.uber.org/zap"
)

var errAmbiguousFlow = errors.New("more than one flow matches")

// cliEnv is what library subcommands work with.
type cliEnv struct {
	db        *sql.DB
	exportDir string
	logger    *zap.Logger
}

// importFile saves the flow at path. With replace, an entry with the same
// title is overwritten.
func (e *cliEnv) importFile(path string, replace bool) (string, model.Flow, error) {
	f, err := model.ReadFile(path)
	if err != nil {
		return "", model.Flow{}, err
	}

	var id string
	if replace && f.Title != "" {
		existing, err := db.GetFlowByTitle(e.db, f.Title)
		switch {
		case err == nil:
			id = existing.ID
			e.logger.Debug("replacing flow", zap.String("id", id), zap.String("title", f.Title))
		case !errors.Is(err, db.ErrFlowNotFound):
			return "", model.Flow{}, err
		}
	}

	id, err = db.SaveFlow(e.db, id, f)
	if err != nil {
		return "", model.Flow{}, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return id, f, nil
}

// lookup resolves ref as a full library ID, then a title, then a unique ID
// prefix.
func (e *cliEnv) lookup(ref string) (model.StoredFlow, error) {
	stored, err := db.GetFlow(e.db, ref)
	if !errors.Is(err, db.ErrFlowNotFound) {
		return stored, err
	}
	stored, err = db.GetFlowByTitle(e.db, ref)
	if !errors.Is(err, db.ErrFlowNotFound) {
		return stored, err
	}

	rows, err := db.ListFlows(e.db, "")
	if err != nil {
		return model.StoredFlow{}, err
	}
	var match string
	for _, r := range rows {
		if !strings.HasPrefix(r.ID, ref) {
			continue
		}
		if match != "" {
			return model.StoredFlow{}, fmt.Errorf("%q: %w", ref, errAmbiguousFlow)
		}
		match = r.ID
	}
	if match == "" {
		return model.StoredFlow{}, fmt.Errorf("%q: %w", ref, db.ErrFlowNotFound)
	}
	return db.GetFlow(e.db, match)
}
