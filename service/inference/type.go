package inference

import "context"

// Request is one frame sent to the oracle together with its instruction.
type Request struct {
	Image    []byte
	MIMEType string
	Prompt   string
}

// IService is the external multimodal model. Replies are free-form text and
// must be treated as untrusted.
type IService interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}
