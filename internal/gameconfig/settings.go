package gameconfig

// settingComments are the range hints written next to values set
// individually.
var settingComments = map[string]string{
	"MaxFPS":                  "0 to 1000",
	"FOV":                     "65 to 120",
	"FullScreenMode":          "0=Windowed,1=Fullscreen,2=Fullscreen Windowed",
	"WindowSize":              "any text",
	"RefreshRate":             "1 to 240",
	"ResolutionPercent":       "50 to 200",
	"Vsync":                   "0 or 1",
	"DrawFPS":                 "0 or 1",
	"RestrictGraphicsOptions": "0 or 1",
	"SmoothFramerate":         "0 or 1",
	"VideoMemory":             "0.75 to 1",
	"StreamMinResident":       "0 or 1",
	"MaxFrameLatency":         "0 to 4",
	"SerializeRender":         "0 to 2",
	"BackbufferCount":         "2 or 3",
}

// SettingComment returns the default comment for key, or "" when the key
// has none.
func SettingComment(key string) string {
	return settingComments[key]
}
