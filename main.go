package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/stencil/dsl"
	"github.com/ByLCY/stencil/layout"
	"github.com/ByLCY/stencil/naming"
	"github.com/ByLCY/stencil/stencil"
)

// config 汇总命令行参数，job 文件中的设置会被显式传入的参数覆盖。
type config struct {
	input        string
	output       string
	job          string
	plan         string
	width        string
	height       string
	orientation  string
	page         string
	filter       string
	dpi          int
	marginX      string
	marginY      string
	strictFilter bool
	title        string
	verbose      bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "", "源图片路径")
	flag.StringVar(&cfg.output, "out", "output/${filename}", "输出路径，支持 ${filename} ${timestamp} ${cols} ${rows} ${pages}")
	flag.StringVar(&cfg.job, "job", "", "stencil job 文件路径")
	flag.StringVar(&cfg.plan, "plan", "", "仅输出排版计划 JSON 到该路径，不生成 PDF")
	flag.StringVar(&cfg.width, "width", "", "目标宽度，例如 42cm、16.5in、3ft")
	flag.StringVar(&cfg.height, "height", "", "目标高度")
	flag.StringVar(&cfg.orientation, "orientation", "portrait", "纸张方向 portrait|landscape")
	flag.StringVar(&cfg.page, "page", "A4", "纸张 A4|A5|Letter")
	flag.StringVar(&cfg.filter, "filter", "none", "滤镜 none|bw|outline")
	flag.IntVar(&cfg.dpi, "dpi", layout.DefaultDPI, "打印分辨率")
	flag.StringVar(&cfg.marginX, "margin-x", "0", "左右留白")
	flag.StringVar(&cfg.marginY, "margin-y", "0", "上下留白")
	flag.BoolVar(&cfg.strictFilter, "strict-filter", false, "未知滤镜视为错误")
	flag.StringVar(&cfg.title, "title", "", "PDF 标题")
	flag.BoolVar(&cfg.verbose, "v", false, "输出调试日志")
	flag.Parse()

	if cfg.verbose {
		stencil.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if cfg.job != "" {
		if err := applyJob(&cfg, set); err != nil {
			log.Fatalf("读取 job 文件失败: %v", err)
		}
	}

	path, err := run(cfg)
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
	fmt.Printf("已生成：%s\n", path)
}

// run 组装请求并执行流水线，返回实际写出的文件路径。
func run(cfg config) (string, error) {
	if cfg.input == "" {
		return "", fmt.Errorf("缺少 -in 参数")
	}
	req, err := buildRequest(cfg)
	if err != nil {
		return "", err
	}
	file, err := os.Open(cfg.input)
	if err != nil {
		return "", fmt.Errorf("无法打开图片 %s: %w", cfg.input, err)
	}
	req.Image = file
	req.ContentType, err = contentType(file, cfg.input)
	if err != nil {
		file.Close()
		return "", err
	}

	if cfg.plan != "" {
		plan, err := stencil.PlanFor(req)
		if err != nil {
			return "", err
		}
		if err := layout.WriteDebugJSON(plan, cfg.plan); err != nil {
			return "", fmt.Errorf("输出排版计划失败: %w", err)
		}
		return cfg.plan, nil
	}

	doc, err := stencil.Generate(req, stencil.Options{})
	if err != nil {
		return "", err
	}
	grid := doc.Plan.Geometry.Grid
	outPath := naming.Expand(cfg.output, map[string]string{
		"filename":  doc.Filename,
		"timestamp": strings.TrimSuffix(strings.TrimPrefix(doc.Filename, "stencil_"), filepath.Ext(doc.Filename)),
		"cols":      strconv.Itoa(grid.Cols),
		"rows":      strconv.Itoa(grid.Rows),
		"pages":     strconv.Itoa(grid.Pages()),
	})
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outPath, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return outPath, nil
}

func buildRequest(cfg config) (stencil.Request, error) {
	width, err := layout.ParseLength(cfg.width)
	if err != nil {
		return stencil.Request{}, fmt.Errorf("-width: %w", err)
	}
	height, err := layout.ParseLength(cfg.height)
	if err != nil {
		return stencil.Request{}, fmt.Errorf("-height: %w", err)
	}
	marginX, err := layout.ParseLength(cfg.marginX)
	if err != nil {
		return stencil.Request{}, fmt.Errorf("-margin-x: %w", err)
	}
	marginY, err := layout.ParseLength(cfg.marginY)
	if err != nil {
		return stencil.Request{}, fmt.Errorf("-margin-y: %w", err)
	}
	return stencil.Request{
		Target:       layout.PhysicalSize{WidthCM: width.CM(), HeightCM: height.CM()},
		Filter:       cfg.filter,
		StrictFilter: cfg.strictFilter,
		Orientation:  cfg.orientation,
		Page:         cfg.page,
		DPI:          cfg.dpi,
		MarginX:      marginX,
		MarginY:      marginY,
		Title:        cfg.title,
	}, nil
}

// applyJob 读取 job 文件中的第一个 stencil 块。
func applyJob(cfg *config, set map[string]bool) error {
	file, err := os.Open(cfg.job)
	if err != nil {
		return err
	}
	defer file.Close()
	parsed, err := dsl.Parse(file)
	if err != nil {
		return err
	}
	s, err := parsed.Jobs[0].Settings()
	if err != nil {
		return err
	}
	str := func(name string, dst *string, v string) {
		if !set[name] && v != "" {
			*dst = v
		}
	}
	length := func(name string, dst *string, l layout.Length) {
		if !set[name] && l.Value != 0 {
			*dst = l.String()
		}
	}
	length("width", &cfg.width, s.Width)
	length("height", &cfg.height, s.Height)
	length("margin-x", &cfg.marginX, s.MarginX)
	length("margin-y", &cfg.marginY, s.MarginY)
	str("orientation", &cfg.orientation, s.Orientation)
	str("page", &cfg.page, s.Page)
	str("filter", &cfg.filter, s.Filter)
	str("title", &cfg.title, s.Title)
	str("out", &cfg.output, s.Output)
	if !set["dpi"] && s.DPI != 0 {
		cfg.dpi = s.DPI
	}
	if !set["strict-filter"] && s.StrictFilter {
		cfg.strictFilter = true
	}
	return nil
}

// contentType 优先按扩展名判断，否则嗅探文件头。
func contentType(file *os.File, path string) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}

func reportError(err error) {
	data, jerr := json.Marshal(stencil.ResultOf(err))
	if jerr != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Fprintln(os.Stderr, string(data))
}
