package mocks

//go:generate mockgen -destination=./mock_completer.go -package=mocks github.com/rxtech-lab/argo-agent/internal/llm Completer
//go:generate mockgen -destination=./mock_session.go -package=mocks github.com/rxtech-lab/argo-agent/internal/session Session
