package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type RoomConfig struct {
	Version int `yaml:"version"`
	Room    struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"room"`
	Network struct {
		UIPort int `yaml:"ui_port"`
	} `yaml:"network"`
	MQTT struct {
		URL         string `yaml:"url"`
		ClientID    string `yaml:"client_id"`
		Username    string `yaml:"username"`
		TopicPrefix string `yaml:"topic_prefix"`
		Optional    bool   `yaml:"optional"`
	} `yaml:"mqtt"`
	Content struct {
		Path string `yaml:"path"`
	} `yaml:"content"`
	Game struct {
		// FrameRate drives the frame scheduler. Zero schedules on wall-clock time.
		FrameRate int `yaml:"frame_rate"`
	} `yaml:"game"`

	dir string
}

// UIPort returns the configured UI port, defaulting to 8080 if not set.
func (c *RoomConfig) UIPort() int {
	if c.Network.UIPort == 0 {
		return 8080
	}
	return c.Network.UIPort
}

// TopicPrefix returns the MQTT topic root for this room.
func (c *RoomConfig) TopicPrefix() string {
	if c.MQTT.TopicPrefix != "" {
		return c.MQTT.TopicPrefix
	}
	return "puzzlemaster/" + c.Room.ID
}

// ClientID returns the MQTT client id, defaulting to one derived from the room.
func (c *RoomConfig) ClientID() string {
	if c.MQTT.ClientID != "" {
		return c.MQTT.ClientID
	}
	return "puzzlemaster-" + c.Room.ID
}

// ContentPath resolves the content file relative to room.yaml.
func (c *RoomConfig) ContentPath() string {
	p := c.Content.Path
	if p == "" {
		p = "content.yaml"
	}
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

func LoadRoomConfig(path string) (*RoomConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RoomConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported room.yaml version: %d", cfg.Version)
	}
	if cfg.Room.ID == "" {
		return nil, fmt.Errorf("room.yaml: room.id is required")
	}
	if cfg.Game.FrameRate < 0 {
		return nil, fmt.Errorf("room.yaml: game.frame_rate must not be negative")
	}

	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}
