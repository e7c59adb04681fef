package vizserver

// Named color schemes a visualization spec can select via the "colorScheme"
// styling argument. Unknown names fall back to the echarts defaults.
var colorSchemes = map[string][]string{
	"green": {"#2f9e44", "#51cf66", "#8ce99a", "#b2f2bb", "#d3f9d8"},
	"blue":  {"#1971c2", "#339af0", "#74c0fc", "#a5d8ff", "#d0ebff"},
	"warm":  {"#e8590c", "#f76707", "#ff922b", "#ffc078", "#ffe8cc"},
}

func schemeColors(args map[string]any) []string {
	name, _ := args["colorScheme"].(string)
	return colorSchemes[name]
}
