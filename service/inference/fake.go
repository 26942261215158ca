package inference

import (
	"context"
	"sync"
)

// Reply is one scripted oracle answer.
type Reply struct {
	Text string
	Err  error
}

type fakeService struct {
	mu       sync.Mutex
	replies  []Reply
	calls    int
	requests []Request
}

// NewFake cycles through replies. With no replies it always answers with a
// safe weapons verdict.
func NewFake(replies ...Reply) IService {
	if len(replies) == 0 {
		replies = []Reply{{Text: `{"status": "safe", "weapons": []}`}}
	}
	return &fakeService{
		replies: replies,
	}
}

func (svc *fakeService) Name() string {
	return "fake"
}

func (svc *fakeService) Generate(_ context.Context, req Request) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	r := svc.replies[svc.calls%len(svc.replies)]
	svc.calls++
	svc.requests = append(svc.requests, req)
	return r.Text, r.Err
}

// Calls reports how many times a fake service was invoked.
func Calls(svc IService) int {
	f, ok := svc.(*fakeService)
	if !ok {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Requests returns the requests a fake service received.
func Requests(svc IService) []Request {
	f, ok := svc.(*fakeService)
	if !ok {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request{}, f.requests...)
}
