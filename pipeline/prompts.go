package pipeline

import "github.com/khaledhikmat/vs-analyzer/model"

const weaponsPrompt = `
You are an AI security system inspecting a single CCTV frame for weapons.
Look for guns, rifles, knives, blades, explosives or any other item that can be used to hurt people.

Respond ONLY with a JSON object in this exact structure:
{
  "status": "safe" | "danger",
  "summary": "Brief description of what is seen",
  "weapons": ["gun", "knife"] or []
}
Use "danger" only when at least one weapon is visible.
`

const anomalyPrompt = `
You are an AI security monitoring system analyzing CCTV footage.
Carefully examine this frame and detect:
- Any suspicious or abnormal activity (running, fights, unusual gatherings, trespassing, etc.)
- Presence of weapons such as guns, knives, explosives, or any dangerous items.

Respond ONLY in this JSON structure:
{
  "status": "normal" | "anomaly" | "critical",
  "summary": "Brief description of what is seen",
  "weapons": ["gun", "knife"] or []
}
`

// PromptFor returns the instruction sent along with every frame.
func PromptFor(mode model.Mode) string {
	if mode == model.ModeAnomaly {
		return anomalyPrompt
	}
	return weaponsPrompt
}
