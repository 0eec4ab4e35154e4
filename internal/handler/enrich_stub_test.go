package handler

import "context"

type scraperStub struct {
	data map[string]any
	err  error

	lastMethod  string
	lastPath    string
	lastPayload any
}

func (s *scraperStub) GetJSON(ctx context.Context, path string, requestID string) (map[string]any, error) {
	s.lastMethod, s.lastPath = "GET", path
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *scraperStub) PostJSON(ctx context.Context, path string, payload any, requestID string) (map[string]any, error) {
	s.lastMethod, s.lastPath, s.lastPayload = "POST", path, payload
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *scraperStub) DeleteJSON(ctx context.Context, path string, requestID string) (map[string]any, error) {
	s.lastMethod, s.lastPath = "DELETE", path
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}
