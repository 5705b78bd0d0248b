package lsp

import (
	"wgslsp/internal/source"
)

// handleSemanticTokens encodes tokens from the cached module. A document
// whose cache entry is missing or older than its text is validated first.
func (s *Server) handleSemanticTokens(msg *rpcMessage) error {
	var params semanticTokensParams
	if ok, err := s.decode(msg, &params); !ok {
		return err
	}
	loc := source.NormalizeLocation(params.TextDocument.URI)
	empty := semanticTokens{Data: []uint32{}}
	text, ok := s.docs.Text(loc)
	if !ok {
		return s.sendResponse(msg.ID, empty)
	}
	cached, ok := s.ws.CachedModule(loc)
	if !ok || cached.Source != text {
		if err := s.ws.Validate(loc); err != nil {
			s.log.Debug("validation before tokens failed", "location", loc, "err", err)
		}
		cached, ok = s.ws.CachedModule(loc)
	}
	if !ok {
		return s.sendResponse(msg.ID, empty)
	}
	data := s.tokens.Tokens(loc, cached.Module, cached.Source, s.enc)
	if data == nil {
		data = []uint32{}
	}
	return s.sendResponse(msg.ID, semanticTokens{Data: data})
}
