package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"

	"BezierBoard/internal/config"
	"BezierBoard/internal/export"
	"BezierBoard/internal/geom"
	"BezierBoard/internal/logging"
	boardnet "BezierBoard/internal/net"
	"BezierBoard/internal/scene"
	"BezierBoard/internal/state"
	"BezierBoard/internal/ui"
)

type options struct {
	configPath string
	join       string
	browse     bool
	render     string
	pdf        string
	points     string
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "TOML settings file")
	flag.StringVar(&opts.join, "join", "", "share link of a board to join ("+boardnet.Scheme+"host:port)")
	flag.BoolVar(&opts.browse, "browse", false, "list boards advertised on the local network and exit")
	flag.StringVar(&opts.render, "render", "", "write a PNG of -points to this file and exit")
	flag.StringVar(&opts.pdf, "pdf", "", "write a PDF of -points to this file and exit")
	flag.StringVar(&opts.points, "points", "", `control points for -render/-pdf, e.g. "100,400 250,50 600,420"`)
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	// A share link passed as the only argument, as when opened from a URL
	// handler, joins that board.
	if opts.join == "" && flag.NArg() == 1 {
		opts.join = flag.Arg(0)
	}

	logging.SetLogger(logging.New(os.Stderr, opts.verbose))

	if err := run(opts); err != nil {
		logging.Logger().Error("bezierboard failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}

	switch {
	case opts.browse:
		return browse()
	case opts.render != "" || opts.pdf != "":
		return renderHeadless(cfg, opts)
	case opts.join != "":
		runClient(cfg, opts.join)
	default:
		runHost(cfg)
	}
	return nil
}

func newEditor(cfg config.Config) *ui.EditorWidget {
	session := state.NewSession(cfg.PickRadius())
	return ui.NewEditorWidget(session, scene.NewComposer(cfg))
}

// renderHeadless composes one frame without opening a window.
func renderHeadless(cfg config.Config, opts options) error {
	points, err := geom.ParsePoints(opts.points)
	if err != nil {
		return fmt.Errorf("parsing -points: %w", err)
	}

	composer := scene.NewComposer(cfg)
	if opts.render != "" {
		frame := scene.Frame{Points: points, Selected: -1}
		pm := composer.Render(cfg.Width, cfg.Height, frame)
		if err := export.PNG(opts.render, pm); err != nil {
			return err
		}
	}
	if opts.pdf != "" {
		pdfOpts := export.DefaultPDFOptions
		pdfOpts.MarkerSize = cfg.MarkerSize
		pdfOpts.Steps = composer.Steps
		if err := export.PDF(opts.pdf, points, pdfOpts); err != nil {
			return err
		}
	}
	return nil
}

func browse() error {
	found := 0
	err := boardnet.Browse(3*time.Second, func(link string) {
		found++
		fmt.Println(link)
	})
	if err != nil {
		return err
	}
	if found == 0 {
		return errors.New("no boards found on the local network")
	}
	return nil
}

func runHost(cfg config.Config) {
	logging.Logger().Info("starting as host")
	editor := newEditor(cfg)
	replica := state.NewReplica()
	hub := boardnet.NewHub()

	// Local edits go to every peer.
	editor.SetOnEdit(func(points []geom.Point2) {
		hub.Publish(replica.Local(points))
	})

	// Peer edits are shown when they win over what we have.
	hub.OnSnapshot = func(s state.Snapshot) {
		if replica.Merge(s) {
			fyne.Do(func() { editor.ApplyRemote(s.Points) })
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serve := func() {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Share.Port)
			if err := hub.ListenAndServe(ctx, addr); err != nil {
				logging.Logger().Warn("sharing disabled", "err", err)
				editor.SetStatus(fmt.Sprintf("Sharing disabled: %v", err))
			}
		}()
	}

	if cfg.Share.Advertise {
		server, err := boardnet.Advertise(cfg.Share.Port)
		if err != nil {
			logging.Logger().Warn("mDNS advertising failed", "err", err)
		} else {
			defer func() {
				if err := server.Shutdown(); err != nil {
					logging.Logger().Warn("stopping mDNS", "err", err)
				}
			}()
		}
	}

	shareLink := boardnet.Link(boardnet.GetOutgoingIP(), cfg.Share.Port)
	logging.Logger().Info("share link", "link", shareLink)
	ui.RunApp(cfg, editor, shareLink, serve)
}

func runClient(cfg config.Config, link string) {
	logging.Logger().Info("starting as client", "link", link)
	editor := newEditor(cfg)
	ui.RunApp(cfg, editor, link, func() {
		go connectToHost(link, editor)
	})
}

func connectToHost(link string, editor *ui.EditorWidget) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := boardnet.Dial(ctx, link)
	cancel()
	if err != nil {
		editor.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer client.Close()

	replica := state.NewReplica()
	editor.SetStatus("Connected to host as " + client.LocalAddr())

	editor.SetOnEdit(func(points []geom.Point2) {
		if err := client.Send(replica.Local(points)); err != nil {
			logging.Logger().Warn("failed to send edit", "err", err)
		}
	})

	err = client.Receive(func(s state.Snapshot) {
		if replica.Merge(s) {
			fyne.Do(func() { editor.ApplyRemote(s.Points) })
		}
	})
	editor.SetOnEdit(nil)
	editor.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
	logging.Logger().Info("disconnected", slog.Any("err", err))
}
