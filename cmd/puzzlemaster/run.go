package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AaronLay10/PuzzleMaster/internal/api"
	"github.com/AaronLay10/PuzzleMaster/internal/bus"
	"github.com/AaronLay10/PuzzleMaster/internal/config"
	"github.com/AaronLay10/PuzzleMaster/internal/events"
	"github.com/AaronLay10/PuzzleMaster/internal/mqtt"
	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
	"github.com/AaronLay10/PuzzleMaster/internal/session"
	"github.com/AaronLay10/PuzzleMaster/internal/stage"
	"github.com/AaronLay10/PuzzleMaster/internal/storage/postgres"
)

var (
	roomPath    string
	envFile     string
	startPuzzle string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the room: MQTT bridge, puzzle controller and operator API",
	Long: `Loads room.yaml and its puzzle content, connects to the MQTT broker and
(optionally) Postgres, then plays the puzzle chain from the entry puzzle
until interrupted.

Environment:
  MQTT_URL, MQTT_PASSWORD[_FILE]      broker address and password
  PGHOST, PGPORT, PGUSER, PGDATABASE  journal database
  PGPASSWORD[_FILE]
  PUZZLEMASTER_OPERATOR_USER/_PASS    basic auth for operator endpoints`,
	Args: cobra.NoArgs,
	RunE: runRoom,
}

func init() {
	runCmd.Flags().StringVar(&roomPath, "room", "rooms/_template/room.yaml", "path to room.yaml")
	runCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	runCmd.Flags().StringVar(&startPuzzle, "start", "", "puzzle to start from (default: first in content)")
}

func runRoom(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	events.SetOutput(os.Stdout)

	roomCfg, err := config.LoadRoomConfig(roomPath)
	if err != nil {
		return fmt.Errorf("failed to load room.yaml: %w", err)
	}
	content, err := config.LoadContent(roomCfg.ContentPath())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(content.Session.Health, content.Session.Ammo)
	events.SetSessionID(sess.ID.String())
	ready := &api.Readiness{}

	// Journal persistence is best effort.
	if err := config.ExportSecret("PGPASSWORD"); err != nil {
		return err
	}
	if pg, err := postgres.New(ctx, roomCfg.Room.ID); err != nil {
		log.Printf("postgres: unavailable, journal not persisted: %v", err)
	} else {
		defer pg.Close()
		events.SetAppender(pg)
		ready.SetPostgres(true)
	}

	hostname, _ := os.Hostname()
	events.Emit("info", "system.startup", "puzzlemaster starting", map[string]interface{}{
		"room":     roomCfg.Room.ID,
		"hostname": hostname,
		"pid":      os.Getpid(),
		"puzzles":  len(content.Puzzles),
	})

	mqttPass, _, err := config.LookupSecret("MQTT_PASSWORD")
	if err != nil {
		return err
	}
	client := mqtt.NewClient(mqtt.Options{
		URL:      roomCfg.MQTT.URL,
		ClientID: roomCfg.ClientID(),
		Username: roomCfg.MQTT.Username,
		Password: mqttPass,
	})
	connected := true
	if err := client.Connect(); err != nil {
		connected = false
		if !roomCfg.MQTT.Optional {
			return fmt.Errorf("mqtt: failed to connect to %s: %w", client.URL(), err)
		}
		log.Printf("mqtt: failed to connect to %s, running without props: %v", client.URL(), err)
	}
	ready.SetMQTT(connected, roomCfg.MQTT.Optional)

	b := bus.New()
	director := stage.NewDirector(content)

	collab := puzzle.Collaborators{Scenes: director, Session: sess}
	if connected {
		props := mqtt.NewProps(client, roomCfg.TopicPrefix())
		collab.Audio, collab.UI, collab.Player = props, props, props
	}

	var sched puzzle.Scheduler = puzzle.WallScheduler{}
	var frames *puzzle.FrameScheduler
	if roomCfg.Game.FrameRate > 0 {
		frames = puzzle.NewFrameScheduler()
		sched = frames
	}

	ctrl := puzzle.NewController(puzzle.Config{
		Bus:           b,
		Chain:         content.Chain(),
		Collaborators: collab,
		Scheduler:     sched,
		ResolveDelay:  content.ResolveDelay(),
		WinScene:      content.WinSceneID(),
		ActionText:    content.ActionText,
	})
	defer ctrl.Cancel()
	director.Bind(ctrl, b)

	if connected {
		defer client.Disconnect()
		monitor := mqtt.NewMonitor(2)
		bridge := mqtt.NewBridge(client, roomCfg.TopicPrefix(), b, ctrl).WithMonitor(monitor)
		if err := bridge.Start(); err != nil {
			return err
		}
		defer bridge.Close()
		monitor.Start(time.Second)
		defer monitor.Stop()
	}

	auth, err := api.LoadCredentials()
	if err != nil {
		return err
	}
	srv := api.NewServer(api.Config{
		RoomID:    roomCfg.Room.ID,
		Puzzle:    ctrl,
		Stage:     director,
		Readiness: ready,
		Auth:      auth,
	})

	if err := director.Start(puzzle.PuzzleID(startPuzzle)); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return director.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, roomCfg.UIPort()) })
	if frames != nil {
		frame := time.Second / time.Duration(roomCfg.Game.FrameRate)
		g.Go(func() error { return frames.Run(gctx, frame) })
	}

	err = g.Wait()
	events.Emit("info", "system.shutdown", "", map[string]interface{}{"room": roomCfg.Room.ID})
	return err
}
