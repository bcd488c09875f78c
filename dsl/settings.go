package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/stencil/layout"
)

// Settings is the flattened content of a job; zero values mean "not set".
type Settings struct {
	Name         string
	Title        string
	Output       string
	Width        layout.Length
	Height       layout.Length
	Page         string
	Orientation  string
	Filter       string
	StrictFilter bool
	DPI          int
	MarginX      layout.Length
	MarginY      layout.Length
}

// Settings 将 job 中的指令与赋值归一为 Settings，未知指令报错并带上位置。
func (j *Job) Settings() (Settings, error) {
	s := Settings{Name: j.Name}
	if j.Block == nil {
		return s, nil
	}
	for _, st := range j.Block.Statements {
		var (
			key  string
			args []string
			pos  lexer.Position
		)
		switch {
		case st.Assignment != nil:
			key, args, pos = st.Assignment.Key, []string{st.Assignment.Value.Text()}, st.Assignment.Pos
		case st.Command != nil:
			key, pos = st.Command.Name, st.Command.Pos
			for _, a := range st.Command.Args {
				if a.Type == "Symbol" {
					continue
				}
				args = append(args, a.Value)
			}
		default:
			continue
		}
		if err := s.apply(strings.ToLower(key), args); err != nil {
			return s, fmt.Errorf("%s: %w", pos, err)
		}
	}
	return s, nil
}

func (s *Settings) apply(key string, args []string) error {
	switch key {
	case "size":
		// size W x H, size W by H, size W H
		vals := make([]string, 0, 2)
		for _, a := range args {
			if l := strings.ToLower(a); l == "x" || l == "by" {
				continue
			}
			vals = append(vals, a)
		}
		if len(vals) != 2 {
			return fmt.Errorf("size 需要宽和高两个值")
		}
		w, err := layout.ParseLength(vals[0])
		if err != nil {
			return err
		}
		h, err := layout.ParseLength(vals[1])
		if err != nil {
			return err
		}
		s.Width, s.Height = w, h
	case "width", "height":
		if len(args) != 1 {
			return fmt.Errorf("%s 需要一个值", key)
		}
		l, err := layout.ParseLength(args[0])
		if err != nil {
			return err
		}
		if key == "width" {
			s.Width = l
		} else {
			s.Height = l
		}
	case "page":
		if len(args) == 0 || len(args) > 2 {
			return fmt.Errorf("page 需要纸张名称与可选方向")
		}
		s.Page = args[0]
		if len(args) == 2 {
			s.Orientation = args[1]
		}
	case "orientation", "filter", "title", "output":
		if len(args) != 1 {
			return fmt.Errorf("%s 需要一个值", key)
		}
		switch key {
		case "orientation":
			s.Orientation = args[0]
		case "filter":
			s.Filter = args[0]
		case "title":
			s.Title = args[0]
		default:
			s.Output = args[0]
		}
	case "dpi":
		if len(args) != 1 {
			return fmt.Errorf("dpi 需要一个值")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("无法解析 dpi %q", args[0])
		}
		s.DPI = n
	case "margin":
		if len(args) == 0 || len(args) > 2 {
			return fmt.Errorf("margin 需要一个或两个值")
		}
		x, err := layout.ParseLength(args[0])
		if err != nil {
			return err
		}
		y := x
		if len(args) == 2 {
			if y, err = layout.ParseLength(args[1]); err != nil {
				return err
			}
		}
		s.MarginX, s.MarginY = x, y
	case "strict-filter":
		s.StrictFilter = true
		if len(args) == 1 {
			v, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("无法解析 strict-filter %q", args[0])
			}
			s.StrictFilter = v
		}
	default:
		return fmt.Errorf("未知指令 %s", key)
	}
	return nil
}
