package lsp

import (
	"slices"

	"wgslsp/internal/document"
	"wgslsp/internal/source"
	"wgslsp/internal/watch"
)

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if ok, err := s.decode(msg, &params); !ok {
		return err
	}
	loc := source.NormalizeLocation(params.TextDocument.URI)
	if loc == "" {
		return nil
	}
	s.docs.Open(loc, params.TextDocument.Text, params.TextDocument.Version)
	s.logMessage(msgLog, "opened %s", loc)
	if _, err := s.ws.Preprocess(loc); err != nil {
		s.log.Warn("preprocess failed", "location", loc, "err", err)
	}
	s.validate(loc)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if ok, err := s.decode(msg, &params); !ok {
		return err
	}
	loc := source.NormalizeLocation(params.TextDocument.URI)
	changes := make([]document.Change, 0, len(params.ContentChanges))
	for _, c := range params.ContentChanges {
		changes = append(changes, document.Change{Range: c.Range, Text: c.Text})
	}
	if err := s.docs.Change(loc, params.TextDocument.Version, changes, s.enc); err != nil {
		s.log.Warn("change ignored", "location", loc, "err", err)
		return nil
	}
	if _, err := s.ws.Preprocess(loc); err != nil {
		s.log.Warn("preprocess failed", "location", loc, "err", err)
	}
	s.validate(loc)
	return nil
}

// handleDidClose hands the document back to the server. Its diagnostics are
// cleared, and open files importing it see the disk content again.
func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if ok, err := s.decode(msg, &params); !ok {
		return err
	}
	loc := source.NormalizeLocation(params.TextDocument.URI)
	if err := s.docs.Close(loc); err != nil {
		s.log.Warn("close ignored", "location", loc, "err", err)
		return nil
	}
	if _, err := s.ws.Preprocess(loc); err != nil {
		s.log.Warn("preprocess failed", "location", loc, "err", err)
	}
	if _, ok := s.published[loc]; ok {
		s.Publish(loc, nil)
	}
	s.revalidateDependents(loc, s.dependents(loc))
	return nil
}

func (s *Server) handleDidChangeWatchedFiles(msg *rpcMessage) error {
	var params didChangeWatchedFilesParams
	if ok, err := s.decode(msg, &params); !ok {
		return err
	}
	for _, ch := range params.Changes {
		s.fileChanged(source.NormalizeLocation(ch.URI), watch.Kind(ch.Type))
	}
	return nil
}

// fileChanged applies a disk change to server-owned documents. Files the
// editor has open are left alone.
func (s *Server) fileChanged(loc source.Location, kind watch.Kind) {
	if loc == "" {
		return
	}
	switch kind {
	case watch.Created, watch.Changed:
		changed, err := s.docs.Reload(loc)
		if err != nil {
			s.log.Debug("reload failed", "location", loc, "err", err)
			s.logMessage(msgWarning, "wgslsp: cannot load %s: %v", loc, err)
			return
		}
		if !changed {
			return
		}
		s.log.Debug("reloaded", "location", loc, "kind", kind)
		if _, err := s.ws.Preprocess(loc); err != nil {
			s.log.Warn("preprocess failed", "location", loc, "err", err)
		}
		s.revalidateDependents(loc, s.dependents(loc))
	case watch.Deleted:
		deps := s.dependents(loc)
		if !s.docs.Remove(loc) {
			return
		}
		s.log.Debug("removed", "location", loc)
		s.ws.Forget(loc)
		delete(s.published, loc)
		s.revalidateDependents(loc, deps)
	}
}

// validate runs validation of loc when enabled. Errors end up as published
// diagnostics; nothing here is fatal.
func (s *Server) validate(loc source.Location) {
	if !s.cfg.Server.Validate {
		return
	}
	if err := s.ws.Validate(loc); err != nil {
		s.log.Debug("validation failed", "location", loc, "err", err)
	}
	s.revalidateDependents(loc, s.dependents(loc))
}

// dependents returns the open documents that transitively import loc.
func (s *Server) dependents(loc source.Location) []source.Location {
	var out []source.Location
	for _, open := range s.openDocuments() {
		if open != loc && slices.Contains(s.ws.DependencyClosure(open), loc) {
			out = append(out, open)
		}
	}
	return out
}

func (s *Server) revalidateDependents(changed source.Location, deps []source.Location) {
	if !s.cfg.Server.Validate {
		return
	}
	for _, loc := range deps {
		if loc == changed {
			continue
		}
		if err := s.ws.Validate(loc); err != nil {
			s.log.Debug("dependent failed", "location", loc, "changed", changed, "err", err)
		}
	}
}

// openDocuments lists the documents the editor owns, sorted.
func (s *Server) openDocuments() []source.Location {
	var out []source.Location
	for _, loc := range s.docs.Locations() {
		if doc, ok := s.docs.Get(loc); ok && doc.Owner() == document.ClientOwned {
			out = append(out, loc)
		}
	}
	return out
}
