package aitools

import (
	"encoding/json"
	"time"
)

// CurrentTimeTool reports the current time in a requested timezone
type CurrentTimeTool struct {
	// now allows tests to pin the clock; nil means time.Now
	now func() time.Time
}

func (t *CurrentTimeTool) ToolName() string {
	return "current_time"
}

func (t *CurrentTimeTool) ToolDescription() string {
	return "Returns the current date and time as an RFC 3339 timestamp in the requested IANA timezone. Defaults to UTC."
}

func (t *CurrentTimeTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"timezone": {
				Type:        TypeString,
				Description: "IANA timezone name, e.g. 'Australia/Sydney' or 'US/Pacific'",
				Default:     "UTC",
			},
		},
	}
}

type currentTimeParams struct {
	Timezone string `json:"timezone"`
}

func (t *CurrentTimeTool) Call(params string) string {
	var p currentTimeParams
	if params != "" {
		if err := json.Unmarshal([]byte(params), &p); err != nil {
			return Unclassified("invalid parameters - " + err.Error()).Render()
		}
	}

	zone := p.Timezone
	if zone == "" {
		zone = "UTC"
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Unclassified("unknown timezone '" + zone + "'").Render()
	}

	now := time.Now
	if t.now != nil {
		now = t.now
	}
	return Ok(now().In(loc).Format(time.RFC3339)).Render()
}
