package naming

import (
	"regexp"
	"strings"
	"time"
)

// TimestampLayout 对应 YYYYMMDD_HHMMSS。
const TimestampLayout = "20060102_150405"

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Suggested returns stencil_YYYYMMDD_HHMMSS.<ext> for the given time.
func Suggested(now time.Time, ext string) string {
	return "stencil_" + now.Format(TimestampLayout) + "." + strings.TrimPrefix(ext, ".")
}

// Expand 将 pattern 中的 ${name} 替换为 vars 中的值。
// 变量不存在时保留原占位符。
func Expand(pattern string, vars map[string]string) string {
	if len(vars) == 0 {
		return pattern
	}
	return exprPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name := strings.TrimSpace(groups[1])
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}
