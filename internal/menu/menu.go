package menu

import (
	"fmt"
	"strings"

	"miimaker/config"
	"miimaker/types"
)

const (
	ActionNavigate = "navigate"
	ActionOpen     = "open"
	ActionCopy     = "copy"
)

const MakerPath = "/miimaker"

// Channels lists the menu tiles in display order. Tiles that need a value
// missing from config are left out.
func Channels(cfg config.MenuConfig) []types.Channel {
	channels := []types.Channel{
		{Name: "Mii Maker", Icon: "/miimaker.png", Action: ActionNavigate, Target: MakerPath},
	}

	ca := strings.TrimSpace(cfg.ContractAddress)
	if ca != "" {
		chain := cfg.Chain
		if chain == "" {
			chain = "bsc"
		}
		channels = append(channels, types.Channel{
			Name:   "Dexscreener",
			Icon:   "/dexscreener.png",
			Action: ActionOpen,
			Target: fmt.Sprintf("https://dexscreener.com/%s/%s", chain, ca),
		})
	}

	if url := strings.TrimSpace(cfg.CommunityURL); url != "" {
		channels = append(channels, types.Channel{
			Name:   "X Community",
			Icon:   "/xcom.png",
			Action: ActionOpen,
			Target: url,
		})
	}

	if ca != "" {
		channels = append(channels, types.Channel{
			Name:   "CA (Click to Copy)",
			Icon:   "/ca.png",
			Action: ActionCopy,
			Target: ca,
		})
	}

	return channels
}
