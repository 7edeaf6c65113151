package shader

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	// glslUniformRegex captures the name of a plain uniform declaration such as "uniform mat4 mvp;"
	glslUniformRegex = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*(?:\[[^\]]*\])?\s*;`)

	// glslInputLocationRegex captures N from "layout(location = N) in ..."
	glslInputLocationRegex = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s`)

	// glslMainRegex matches the GLSL entry point
	glslMainRegex = regexp.MustCompile(`\bvoid\s+main\s*\(`)
)

// parseGLSLUniforms returns the names of all uniform declarations in GLSL source.
func parseGLSLUniforms(source string) []string {
	var names []string
	for _, match := range glslUniformRegex.FindAllStringSubmatch(stripComments(source), -1) {
		names = append(names, match[1])
	}
	return names
}

// parseGLSLInputLocations returns the sorted locations of all layout-qualified vertex inputs.
func parseGLSLInputLocations(source string) []int {
	var locations []int
	for _, match := range glslInputLocationRegex.FindAllStringSubmatch(stripComments(source), -1) {
		if loc, err := strconv.Atoi(match[1]); err == nil {
			locations = append(locations, loc)
		}
	}
	sort.Ints(locations)
	return locations
}
