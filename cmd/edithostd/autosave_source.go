package main

import (
	"context"
	"encoding/json"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/internal/editor/autosave"
)

// scriptDocument adapts the JSON shape a "documents.snapshot" query
// returns into autosave.Document. The document model itself lives in
// script land (this host only provides infra); Go never holds buffer
// contents outside of an autosave cycle.
type scriptDocument struct {
	PathValue     string `json:"path"`
	DirtyValue    bool   `json:"dirty"`
	ContentsValue string `json:"contents"`
}

func (d scriptDocument) Path() string     { return d.PathValue }
func (d scriptDocument) Dirty() bool      { return d.DirtyValue }
func (d scriptDocument) Contents() []byte { return []byte(d.ContentsValue) }

// documentSourceFromRouter builds an autosave.Source that asks the script
// side for its open documents via a "documents.snapshot" query. A script
// that never registers that query simply never has anything to
// autosave — Execute failing is not itself an error worth logging on
// every tick.
func documentSourceFromRouter(router *command.Router) autosave.Source {
	return func() []autosave.Document {
		if router == nil || !router.Exists("documents.snapshot") {
			return nil
		}
		env := router.ExecuteWithResult(context.Background(), "documents.snapshot", nil)
		if !env.OK {
			return nil
		}
		raw, err := json.Marshal(env.Data)
		if err != nil {
			return nil
		}
		var docs []scriptDocument
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil
		}
		out := make([]autosave.Document, len(docs))
		for i, d := range docs {
			out[i] = d
		}
		return out
	}
}
