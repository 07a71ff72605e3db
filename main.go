package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
	"github.com/ByLCY/folio/typeset"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "分页失败: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:            "folio",
		Usage:           "paginate chapter text into fixed-size reader pages",
		ArgsUsage:       "CHAPTER...",
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "load reader profile from `FILE`"},
			&cli.FloatFlag{Name: "width", Value: 1080, Usage: "viewport width in px"},
			&cli.FloatFlag{Name: "height", Value: 1920, Usage: "viewport height in px"},
			&cli.FloatFlag{Name: "density", Value: 2.75, Usage: "px per dp"},
			&cli.FloatFlag{Name: "dpi", Value: canvasrenderer.DefaultDPI, Usage: "px per inch used for font sizes and PDF pages"},
			&cli.StringFlag{Name: "typesetter", Value: "canvas", Usage: "line breaking backend `NAME` (canvas, cells)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write PDF to `FILE`"},
			&cli.StringFlag{Name: "debug", Usage: "dump pagination result to `FILE`"},
			&cli.StringFlag{Name: "debug-format", Value: "json", Usage: "dump `FORMAT` (json, yaml)"},
			&cli.StringFlag{Name: "log-level", Value: "normal", Usage: "console log `LEVEL` (none, normal, debug)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := newLogger(cmd.String("log-level"), stdout, stderr)
			defer func() { _ = log.Sync() }()
			return run(ctx, cmd, log)
		},
	}
}

// run 串联配置解析、分页、调试输出与渲染。
func run(ctx context.Context, cmd *cli.Command, log *zap.Logger) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("至少需要一个章节文件")
	}

	profilePath := cmd.String("profile")
	profile, err := loadProfile(profilePath)
	if err != nil {
		return err
	}
	style, err := profile.Style.Resolve(cmd.Float("density"))
	if err != nil {
		return fmt.Errorf("解析样式失败: %w", err)
	}
	vp := layout.Viewport{Width: cmd.Float("width"), Height: cmd.Float("height")}

	var canvasR *canvasrenderer.Renderer
	outPath := cmd.String("out")
	typesetter := strings.ToLower(cmd.String("typesetter"))
	if typesetter == "canvas" || outPath != "" {
		baseDir := "."
		if profilePath != "" {
			baseDir = filepath.Dir(profilePath)
		}
		canvasR, err = canvasrenderer.NewRenderer(canvasrenderer.Options{
			Font:    profile.Font,
			DPI:     cmd.Float("dpi"),
			Footer:  profile.Footer,
			BaseDir: baseDir,
			Logger:  log,
		})
		if err != nil {
			return fmt.Errorf("初始化渲染器失败: %w", err)
		}
	}

	var ts layout.Typesetter
	switch typesetter {
	case "canvas":
		ts = canvasR.Typesetter()
	case "cells":
		ts = typeset.NewCells()
	default:
		return fmt.Errorf("不支持的排版后端: %s", typesetter)
	}

	p, err := layout.NewPaginator(style, vp, layout.Options{Typesetter: ts, Logger: log})
	if err != nil {
		return fmt.Errorf("布局参数无效: %w", err)
	}
	log.Info("Paginating",
		zap.String("profile", profile.Name),
		zap.Int("chapters", len(files)),
		zap.String("typesetter", typesetter),
		zap.Float64("visibleWidth", p.Frame().VisibleWidth),
		zap.Float64("visibleHeight", p.Frame().VisibleHeight))

	chapters, err := paginateAll(ctx, p, files)
	if err != nil {
		return err
	}
	result := &layout.Result{Viewport: vp, Style: style, Chapters: chapters}
	pages := 0
	for _, ch := range chapters {
		pages += ch.PageSize()
	}
	log.Info("Paginated", zap.Int("chapters", len(chapters)), zap.Int("pages", pages))

	if debugPath := cmd.String("debug"); debugPath != "" {
		if err := writeDebug(result, debugPath, cmd.String("debug-format")); err != nil {
			return err
		}
		log.Info("Debug dump written", zap.String("path", debugPath))
	}

	if outPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := canvasR.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	log.Info("PDF written", zap.String("path", outPath))
	return nil
}

func loadProfile(path string) (layout.Profile, error) {
	if path == "" {
		return layout.DefaultProfile(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return layout.Profile{}, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return layout.Profile{}, fmt.Errorf("解析配置文件失败: %w", err)
	}
	profile, err := layout.ResolveProfile(doc)
	if err != nil {
		return layout.Profile{}, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return profile, nil
}

// paginateAll 并发分页；章节序号为参数顺序，标题取首行。任一章节失败时取消其余章节。
func paginateAll(ctx context.Context, p *layout.Paginator, files []string) ([]*layout.TextChapter, error) {
	chapters := make([]*layout.TextChapter, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("读取章节 %s 失败: %w", path, err)
			}
			content := string(data)
			ch, err := p.Paginate(layout.ChapterMeta{
				Index:    i,
				Title:    chapterTitle(content),
				SourceID: path,
				Size:     len(files),
			}, content)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			chapters[i] = ch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chapters, nil
}

func chapterTitle(content string) string {
	title, _, _ := strings.Cut(content, "\n")
	return strings.TrimSuffix(title, "\r")
}

func writeDebug(result *layout.Result, debugPath, format string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebug(result, debugPath, format); err != nil {
		return fmt.Errorf("输出调试文件失败: %w", err)
	}
	return nil
}

// newLogger 构建控制台日志：低于 error 的写 stdout，error 及以上写 stderr。
func newLogger(level string, stdout, stderr io.Writer) *zap.Logger {
	var floor zapcore.Level
	switch level {
	case "debug":
		floor = zapcore.DebugLevel
	case "normal":
		floor = zapcore.InfoLevel
	default:
		return zap.NewNop()
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(ec)

	low := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(stdout)),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return floor <= lvl && lvl < zapcore.ErrorLevel
		}))
	high := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(stderr)),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return zap.New(zapcore.NewTee(low, high))
}
