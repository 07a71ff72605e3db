package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// WriteDebugJSON 将分页结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteDebugYAML 将分页结果输出为 YAML。
func WriteDebugYAML(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteDebug 按 format（json/yaml）输出调试文件。
func WriteDebug(res *Result, path, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		return WriteDebugJSON(res, path)
	case "yaml", "yml":
		return WriteDebugYAML(res, path)
	default:
		return fmt.Errorf("不支持的调试输出格式: %s", format)
	}
}
