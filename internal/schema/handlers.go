package schema

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/jsonv"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

type discoveryInfo struct {
	ComponentConfig *string `json:"componentConfig"`
	ConfigJSON      *string `json:"configJson"`
}

func (s *Server) handleDiscoveryInfo(w http.ResponseWriter, _ *http.Request) {
	var info discoveryInfo
	if s.project.ConfigDir != "" {
		info.ComponentConfig = &s.project.ConfigDir
	}
	if s.project.ConfigJSON != "" {
		info.ConfigJSON = &s.project.ConfigJSON
	}
	s.jsonResponse(w, info)
}

type loadSchemasRequest struct {
	ComponentSchema json.RawMessage `json:"componentSchema"`
	RowSchema       json.RawMessage `json:"rowSchema"`
	ComponentName   string          `json:"componentName"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (s *Server) handleLoadSchemas(w http.ResponseWriter, r *http.Request) {
	var req loadSchemasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !present(req.ComponentSchema) || !present(req.RowSchema) {
		s.jsonError(w, "Missing componentSchema or rowSchema", http.StatusBadRequest)
		return
	}
	if req.ComponentName == "" {
		req.ComponentName = "Unknown"
	}

	s.mu.Lock()
	s.uploaded = &uploaded{Component: req.ComponentSchema, Row: req.RowSchema, Name: req.ComponentName}
	s.mu.Unlock()

	s.logger.Info("schemas uploaded from browser", "component", req.ComponentName)
	s.jsonResponse(w, map[string]string{
		"status":  "success",
		"message": "Schemas loaded for " + req.ComponentName,
	})
}

type schemasResponse struct {
	ComponentSchema json.RawMessage `json:"componentSchema"`
	RowSchema       json.RawMessage `json:"rowSchema"`
}

func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	up := s.uploaded
	s.mu.RUnlock()
	if up != nil {
		s.jsonResponse(w, schemasResponse{ComponentSchema: up.Component, RowSchema: up.Row})
		return
	}

	dir := r.URL.Query().Get("path")
	if dir == "" {
		dir = s.project.ConfigDir
	}
	if !isDir(dir) {
		s.jsonError(w, "Component config folder not found: "+dir, http.StatusNotFound)
		return
	}

	component, err := readSchema(filepath.Join(dir, ComponentSchemaFile))
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, err := readSchema(filepath.Join(dir, RowSchemaFile))
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, schemasResponse{ComponentSchema: component, RowSchema: row})
}

// readSchema loads a schema file keeping its property order, which drives
// the form field order in the browser.
func readSchema(path string) (json.RawMessage, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filepath.Base(path))
	}
	v, err := jsonv.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
	}
	return jsonv.Encode(v, ""), nil
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = filepath.Join(s.project.DataDir(), ConfigFileName)
	}

	empty := json.RawMessage("{}")
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not read config.json", "path", path, "error", err)
		}
		s.jsonResponse(w, empty)
		return
	}
	if !gjson.ValidBytes(data) {
		s.logger.Warn("config.json is not valid JSON", "path", path)
		s.jsonResponse(w, empty)
		return
	}
	doc := gjson.ParseBytes(data)
	params := doc.Get("parameters")
	if !doc.IsObject() || !params.Exists() {
		s.jsonResponse(w, empty)
		return
	}
	s.jsonResponse(w, json.RawMessage(params.Raw))
}

type syncActionRequest struct {
	Action        string          `json:"action"`
	Parameters    json.RawMessage `json:"parameters"`
	ComponentPath string          `json:"componentPath"`
}

func (s *Server) handleSyncAction(w http.ResponseWriter, r *http.Request) {
	var req syncActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.actionError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Action == "" {
		s.actionError(w, "missing action", http.StatusBadRequest)
		return
	}

	root := s.project.Root
	if req.ComponentPath != "" && isDir(req.ComponentPath) {
		root = req.ComponentPath
		if filepath.Base(root) == ConfigDirName {
			root = filepath.Dir(root)
		}
	}

	s.logger.Info("running sync action", "action", req.Action, "root", root)
	out, err := s.runner.Run(r.Context(), root, req.Action, req.Parameters)
	if err != nil {
		s.logger.Error("sync action failed", "action", req.Action, "error", err)
		s.actionError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, out)
}
