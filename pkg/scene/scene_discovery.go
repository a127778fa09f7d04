package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
)

const builtinGroup = "Built-in Scenes"

// ErrTypeSceneMetadata is the type of errors listing scene files
const ErrTypeSceneMetadata = "scene-metadata"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`     // "builtin" or "json"
	FilePath    string `json:"filePath"` // json type only
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

type builtinScene struct {
	info SceneInfo
	make func() *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "cornell-box", Name: "Cornell Box", Description: "Cornell box with an area light, a mirror and a diffuse sphere"}, NewCornellScene},
	{SceneInfo{ID: "basic", Name: "Default Scene", Description: "Spheres, a cylinder and an animated sphere on a ground quad"}, NewDefaultScene},
	{SceneInfo{ID: "sphere-grid", Name: "Sphere Grid", Description: "10x10 grid of glossy spheres colored in OKLCH"}, NewSphereGridScene},
}

// Builtin creates the built-in scene with the given id
func Builtin(id string) (*Scene, bool) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.make(), true
		}
	}
	return nil, false
}

// ListBuiltinScenes returns the metadata of every built-in scene
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		scenes[i] = b.info
		scenes[i].Group = builtinGroup
		scenes[i].Type = "builtin"
	}
	return scenes
}

// ListJSONScenes scans dir for scene files and reads their metadata. A missing
// directory yields no scenes.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.New("scanning scenes directory failed").
			WithType(ErrTypeSceneMetadata).
			WithTag("dir", dir).
			Wrap(err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads the optional "name", "description" and "group"
// fields of a scene file, falling back to values derived from the file name
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:       "json:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "json",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, errors.New("reading scene file failed").
			WithType(ErrTypeSceneMetadata).
			WithTag("filename", filePath).
			Wrap(err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info, errors.New("parsing scene metadata failed").
			WithType(ErrTypeSceneMetadata).
			WithTag("filename", filePath).
			Wrap(err)
	}
	if header.Name != "" {
		info.Name = header.Name
	}
	if header.Group != "" {
		info.Group = header.Group
	}
	info.Description = header.Description
	return info, nil
}

// ListAllScenes returns built-in and file scenes grouped by category, built-in first
func ListAllScenes(dir string) ([]SceneGroup, error) {
	fileScenes, err := ListJSONScenes(dir)
	if err != nil {
		return nil, err
	}

	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(ListBuiltinScenes(), fileScenes...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for name := range groupMap {
		if name != builtinGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
