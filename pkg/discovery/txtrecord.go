package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeTXT builds the TXT record strings for a game server
// advertisement.
func EncodeTXT(info *GameInfo) []string {
	records := []string{
		fmt.Sprintf("%s=%s", TXTKeyName, info.Name),
	}
	if info.Mode != "" {
		records = append(records, fmt.Sprintf("%s=%s", TXTKeyMode, info.Mode))
	}
	records = append(records,
		fmt.Sprintf("%s=%d", TXTKeyPlayers, info.Players),
		fmt.Sprintf("%s=%d", TXTKeyMaxPlayers, info.MaxPlayers),
	)
	if info.Version != "" {
		records = append(records, fmt.Sprintf("%s=%s", TXTKeyVersion, info.Version))
	}
	if info.Path != "" && info.Path != DefaultPath {
		records = append(records, fmt.Sprintf("%s=%s", TXTKeyPath, info.Path))
	}
	return records
}

// DecodeTXT parses TXT record strings into game server info. The name
// key is required; unknown keys are ignored.
func DecodeTXT(records []string) (*GameInfo, error) {
	info := &GameInfo{Path: DefaultPath}
	haveName := false

	for _, record := range records {
		key, value, ok := strings.Cut(record, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTXTRecord, record)
		}

		switch key {
		case TXTKeyName:
			info.Name = value
			haveName = true
		case TXTKeyMode:
			info.Mode = value
		case TXTKeyPlayers:
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: players %q", ErrInvalidTXTRecord, value)
			}
			info.Players = n
		case TXTKeyMaxPlayers:
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: max %q", ErrInvalidTXTRecord, value)
			}
			info.MaxPlayers = n
		case TXTKeyVersion:
			info.Version = value
		case TXTKeyPath:
			info.Path = value
		}
	}

	if !haveName {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyName)
	}
	return info, nil
}
