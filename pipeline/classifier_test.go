package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestClassifyParsesProseWrappedReply(t *testing.T) {
	oracle := inference.NewFake(inference.Reply{
		Text: "Here is my analysis: {\"status\": \"danger\", \"weapons\": [\"knife\"]} Hope that helps.",
	})
	img := solidFrame(red, 32, 32)
	defer img.Close()

	cl := NewClassifier(oracle, model.ModeWeapons, 90).Classify(context.Background(), img)

	assert.False(t, cl.Degraded)
	assert.Equal(t, model.StatusDanger, cl.Verdict.Status)
	assert.Equal(t, []string{"knife"}, cl.Verdict.Weapons)
	assert.NotEmpty(t, cl.JPEG)

	reqs := inference.Requests(oracle)
	require.Len(t, reqs, 1)
	assert.Equal(t, JPEGMIMEType, reqs[0].MIMEType)
	assert.Equal(t, PromptFor(model.ModeWeapons), reqs[0].Prompt)
	assert.Equal(t, cl.JPEG, reqs[0].Image)
}

func TestClassifyFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name  string
		reply inference.Reply
		mode  model.Mode
		want  model.Status
	}{
		{"refusal", inference.Reply{Text: "I cannot process this"}, model.ModeWeapons, model.StatusSafe},
		{"oracle error", inference.Reply{Err: errors.New("quota exceeded")}, model.ModeWeapons, model.StatusSafe},
		{"invalid json", inference.Reply{Text: "{status: bad}"}, model.ModeAnomaly, model.StatusNormal},
		{"foreign status", inference.Reply{Text: `{"status": "danger", "weapons": ["gun"]}`}, model.ModeAnomaly, model.StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := NewClassifier(inference.NewFake(tt.reply), tt.mode, 90).ClassifyEncoded(context.Background(), []byte{0xFF, 0xD8})

			assert.True(t, cl.Degraded)
			assert.Equal(t, tt.want, cl.Verdict.Status)
			assert.NotNil(t, cl.Verdict.Weapons)
			assert.Empty(t, cl.Verdict.Weapons)
		})
	}
}

type panickyOracle struct{}

func (panickyOracle) Name() string { return "panicky" }

func (panickyOracle) Generate(context.Context, inference.Request) (string, error) {
	panic("boom")
}

func TestClassifyRecoversOraclePanic(t *testing.T) {
	cl := NewClassifier(panickyOracle{}, model.ModeWeapons, 90).ClassifyEncoded(context.Background(), []byte{1})

	assert.True(t, cl.Degraded)
	assert.Equal(t, model.DefaultVerdict(model.ModeWeapons), cl.Verdict)
}

func TestClassifyEmptyFrameSkipsOracle(t *testing.T) {
	oracle := inference.NewFake()
	img := gocv.NewMat()
	defer img.Close()

	cl := NewClassifier(oracle, model.ModeWeapons, 90).Classify(context.Background(), img)

	assert.True(t, cl.Degraded)
	assert.Equal(t, model.StatusSafe, cl.Verdict.Status)
	assert.Equal(t, 0, inference.Calls(oracle))
}
