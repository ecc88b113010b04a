package transcript

import "tdmenu/internal/model"

// Sample returns a transcript with one entry of every kind, the same
// conversation a haiku app with a mood tool would produce.
func Sample() model.Transcript {
	segments := func() []model.Segment { return []model.Segment{model.Text("Text segment")} }
	mood := model.ToolDefinition{Name: "generateMood", Description: "Generates a random mood for haiku"}
	threshold := 1.0
	temperature := 1.0
	maxTokens := 30

	return model.Transcript{
		model.NewInstructions(segments(), []model.ToolDefinition{mood}),
		model.NewPrompt(segments(), model.GenerationOptions{
			SamplingPolicy:        &model.Sampling{Mode: model.SamplingRandom, ProbabilityThreshold: &threshold},
			Temperature:           &temperature,
			MaximumResponseTokens: &maxTokens,
		}, &model.ResponseFormat{Name: "Mood", Description: "One of: happy, sad, thoughtful, excited, calm"}),
		model.NewToolCalls(model.ToolCall{ID: "id", ToolName: mood.Name, Arguments: model.JSONValue(`{}`)}),
		withID(model.NewToolOutput(mood.Name, segments()...), "id"),
		model.NewResponse([]string{"id"}, segments()...),
	}
}

func withID(e model.Entry, id string) model.Entry {
	e.ID = id
	return e
}
