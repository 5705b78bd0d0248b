package lsp

import (
	"encoding/json"
	"path/filepath"
	"slices"

	"wgslsp/internal/config"
	"wgslsp/internal/project"
	"wgslsp/internal/semtok"
	"wgslsp/internal/source"
	"wgslsp/internal/trace"
	"wgslsp/internal/version"
	"wgslsp/internal/watch"
)

func (s *Server) handleInitialize(msg *rpcMessage) error {
	if s.initialized {
		return s.sendError(msg.ID, codeInvalidRequest, "server already initialized")
	}
	var params initializeParams
	if len(msg.Params) > 0 {
		if ok, err := s.decode(msg, &params); !ok {
			return err
		}
	}
	folders := workspaceDirs(params)

	if s.opts.Config == nil && len(folders) > 0 {
		cfg, err := config.Load(folders[0])
		if err != nil {
			s.log.Warn("config ignored", "err", err)
			s.logMessage(msgWarning, "wgslsp: %v", err)
			cfg = config.Default()
		}
		s.cfg = cfg
	}
	if params.InitializationOptions != nil {
		if err := s.cfg.Apply(*params.InitializationOptions); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, err.Error())
		}
	}
	defs, err := s.cfg.Defs()
	if err != nil {
		s.logMessage(msgWarning, "wgslsp: %v", err)
	}
	s.ws.SetShaderDefs(defs)
	s.log.SetLevel(s.cfg.Level())

	s.enc = negotiateEncoding(params.Capabilities.General.PositionEncodings, s.cfg)
	s.ws.SetEncoding(s.enc)
	s.resizeTokens()
	s.watchClient = params.Capabilities.Workspace.DidChangeWatchedFiles.DynamicRegistration

	s.roots = nil
	for _, dir := range folders {
		for _, root := range s.cfg.Roots(dir) {
			if !slices.Contains(s.roots, root) {
				s.roots = append(s.roots, root)
			}
		}
	}
	s.loadWorkspace()
	s.initialized = true

	return s.sendResponse(msg.ID, initializeResult{
		Capabilities: serverCapabilities{
			PositionEncoding: s.enc.String(),
			TextDocumentSync: textDocumentSyncOptions{OpenClose: true, Change: 2},
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semtok.DefaultLegend(),
				Full:   true,
			},
		},
		ServerInfo: serverInfo{Name: "wgslsp", Version: version.Version},
	})
}

// negotiateEncoding prefers counting code points. A forced encoding from
// the config wins when the client can speak it; utf-16 is always allowed.
func negotiateEncoding(offered []string, cfg config.Config) source.Encoding {
	if forced, ok := cfg.Encoding(); ok && (forced == source.UTF16 || slices.Contains(offered, forced.String())) {
		return forced
	}
	if slices.Contains(offered, source.UTF32.String()) {
		return source.UTF32
	}
	return source.UTF16
}

func workspaceDirs(params initializeParams) []string {
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if !slices.Contains(dirs, path) {
			dirs = append(dirs, path)
		}
	}
	for _, f := range params.WorkspaceFolders {
		add(source.NormalizeLocation(f.URI).Path())
	}
	if len(dirs) == 0 && params.RootURI != "" {
		add(source.NormalizeLocation(params.RootURI).Path())
	}
	if len(dirs) == 0 {
		add(params.RootPath)
	}
	return dirs
}

// loadWorkspace opens every shader under the roots as a server-owned
// document and binds its module name.
func (s *Server) loadWorkspace() {
	if len(s.roots) == 0 {
		return
	}
	span := trace.Begin(s.tracer, trace.ScopeStage, "scan")
	files, err := project.Scan(s.ctx, s.roots, s.cfg.Server.Extensions)
	span.End("")
	if err != nil {
		s.log.Warn("workspace scan failed", "err", err)
		s.logMessage(msgError, "wgslsp: failed to load workspace: %v", err)
		return
	}
	for _, f := range files {
		s.docs.ServerText(f.Location, f.Text)
		if _, err := s.ws.Preprocess(f.Location); err != nil {
			s.log.Warn("preprocess failed", "location", f.Location, "err", err)
		}
	}
	s.log.Info("workspace loaded", "modules", len(files), "roots", len(s.roots))
	s.logMessage(msgInfo, "wgslsp: loaded %d modules", len(files))
}

func (s *Server) handleInitialized() error {
	if s.watchClient {
		globs := make([]fileSystemWatcher, 0, len(s.cfg.Server.Extensions))
		for _, ext := range s.cfg.Server.Extensions {
			globs = append(globs, fileSystemWatcher{GlobPattern: "**/*" + ext})
		}
		err := s.request("client/registerCapability", registrationParams{Registrations: []registration{{
			ID:              "wgslsp-watched-files",
			Method:          "workspace/didChangeWatchedFiles",
			RegisterOptions: watchedFilesOptions{Watchers: globs},
		}}})
		if err != nil {
			return err
		}
	}
	if s.opts.Watch && s.cfg.Server.Watch {
		s.startWatcher()
	}
	return nil
}

func (s *Server) startWatcher() {
	w, err := watch.New(s.cfg.Server.Extensions, s.log)
	if err != nil {
		s.log.Warn("file watcher disabled", "err", err)
		return
	}
	for _, root := range s.roots {
		if err := w.Add(root); err != nil {
			s.log.Warn("cannot watch root", "root", root, "err", err)
		}
	}
	s.watcher = w
	s.watchEvents = w.Events()
	go w.Run(s.ctx)
}

func (s *Server) stopWatcher() {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Close(); err != nil {
		s.log.Debug("closing watcher", "err", err)
	}
	s.watcher = nil
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.shutdownRequested = true
	s.stopWatcher()
	s.clearPublished()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if ok, err := s.decode(msg, &params); !ok || len(params.Settings) == 0 {
		return err
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		s.log.Warn("ignoring settings", "err", err)
		return nil
	}
	if settings.WGSL.Trace != nil {
		s.traceLSP = *settings.WGSL.Trace
	}
	if v := settings.WGSL.Validate; v != nil && *v != s.cfg.Server.Validate {
		s.cfg.Server.Validate = *v
		if *v {
			for _, loc := range s.openDocuments() {
				s.validate(loc)
			}
		} else {
			s.clearPublished()
		}
	}
	return nil
}

// Close releases the watcher when Run was never started.
func (s *Server) Close() error {
	s.stopWatcher()
	return nil
}

