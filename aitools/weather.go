package aitools

// WeatherTool is a stub forecast tool. It answers "sunny" for any input
// and never fails; it stands in for a real weather provider in demos.
type WeatherTool struct{}

func (t *WeatherTool) ToolName() string {
	return "current_weather"
}

func (t *WeatherTool) ToolDescription() string {
	return "Returns the weather forecast for a city. Demo stub: always reports 'sunny'."
}

func (t *WeatherTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"city": {
				Type:        TypeString,
				Description: "City to get the forecast for",
			},
			"days": {
				Type:        TypeInteger,
				Description: "Number of days to forecast",
				Default:     3,
			},
		},
	}
}

func (t *WeatherTool) Call(params string) string {
	// Input is intentionally ignored; the stub is total by construction.
	return Ok("sunny").Render()
}
