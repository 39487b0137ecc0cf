package lastfm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserService provides the user.* methods of the Last.fm API.
type UserService struct {
	client *Client
}

type recentTracksResponse struct {
	RecentTracks struct {
		Track list[rawRecentTrack] `json:"track"`
	} `json:"recenttracks"`
}

type rawRecentTrack struct {
	Name   string     `json:"name"`
	MBID   string     `json:"mbid"`
	URL    string     `json:"url"`
	Artist textNode   `json:"artist"`
	Album  textNode   `json:"album"`
	Image  []rawImage `json:"image"`
	Date   *struct {
		UTS  string `json:"uts"`
		Text string `json:"#text"`
	} `json:"date"`
	Attr struct {
		NowPlaying flag `json:"nowplaying"`
	} `json:"@attr"`
}

// RecentTracks returns up to limit of the user's most recent plays, most
// recent first. A track currently playing is returned first with
// NowPlaying set and a nil PlayedAt.
//
// Example:
//
//	tracks, err := client.User().RecentTracks(ctx, "rj", 50)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range tracks {
//	    fmt.Println(t.Artist, "-", t.Name)
//	}
func (s *UserService) RecentTracks(ctx context.Context, user string, limit int) ([]RecentTrack, error) {
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}
	params := map[string]string{"user": user}
	if limit > 0 {
		if limit > MaxRecentLimit {
			limit = MaxRecentLimit
		}
		params["limit"] = strconv.Itoa(limit)
	}

	var resp recentTracksResponse
	if err := s.client.get(ctx, "user.getrecenttracks", params, &resp); err != nil {
		return nil, err
	}

	tracks := make([]RecentTrack, 0, len(resp.RecentTracks.Track))
	for _, t := range resp.RecentTracks.Track {
		track := RecentTrack{
			Name:       t.Name,
			Artist:     t.Artist.value(),
			ArtistMBID: t.Artist.MBID,
			Album:      t.Album.value(),
			MBID:       t.MBID,
			URL:        t.URL,
			NowPlaying: bool(t.Attr.NowPlaying),
			Images:     convertImages(t.Image),
		}
		if t.Date != nil {
			track.PlayedAt = parseUTS(t.Date.UTS)
		}
		tracks = append(tracks, track)
	}

	// Last.fm may return one extra item (the now playing track) on top of
	// the requested limit.
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}

	return tracks, nil
}

type topArtistsResponse struct {
	TopArtists struct {
		Artist list[struct {
			Name      string      `json:"name"`
			MBID      string      `json:"mbid"`
			URL       string      `json:"url"`
			PlayCount count       `json:"playcount"`
			Image     []rawImage  `json:"image"`
			Attr      rawRankAttr `json:"@attr"`
		}] `json:"artist"`
	} `json:"topartists"`
}

// TopArtists returns the user's most played artists over period.
func (s *UserService) TopArtists(ctx context.Context, user string, period Period, limit int) ([]TopArtist, error) {
	params, err := topParams(user, period, limit)
	if err != nil {
		return nil, err
	}

	var resp topArtistsResponse
	if err := s.client.get(ctx, "user.gettopartists", params, &resp); err != nil {
		return nil, err
	}

	artists := make([]TopArtist, 0, len(resp.TopArtists.Artist))
	for i, a := range resp.TopArtists.Artist {
		rank := int(a.Attr.Rank)
		if rank == 0 {
			rank = i + 1
		}
		artists = append(artists, TopArtist{
			Rank:      rank,
			Name:      a.Name,
			MBID:      a.MBID,
			URL:       a.URL,
			PlayCount: int(a.PlayCount),
			Images:    convertImages(a.Image),
		})
	}
	return artists, nil
}

type rawTopTrack struct {
	Name      string      `json:"name"`
	MBID      string      `json:"mbid"`
	URL       string      `json:"url"`
	PlayCount count       `json:"playcount"`
	Listeners count       `json:"listeners"`
	Duration  count       `json:"duration"`
	Artist    textNode    `json:"artist"`
	Image     []rawImage  `json:"image"`
	Attr      rawRankAttr `json:"@attr"`
}

type topTracksResponse struct {
	TopTracks struct {
		Track list[rawTopTrack] `json:"track"`
	} `json:"toptracks"`
}

// TopTracks returns the user's most played tracks over period.
func (s *UserService) TopTracks(ctx context.Context, user string, period Period, limit int) ([]TopTrack, error) {
	params, err := topParams(user, period, limit)
	if err != nil {
		return nil, err
	}

	var resp topTracksResponse
	if err := s.client.get(ctx, "user.gettoptracks", params, &resp); err != nil {
		return nil, err
	}
	return convertTopTracks(resp.TopTracks.Track), nil
}

func topParams(user string, period Period, limit int) (map[string]string, error) {
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}
	p, err := ParsePeriod(string(period))
	if err != nil {
		return nil, err
	}
	params := map[string]string{
		"user":   user,
		"period": string(p),
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return params, nil
}

func convertTopTracks(raw []rawTopTrack) []TopTrack {
	tracks := make([]TopTrack, 0, len(raw))
	for i, t := range raw {
		rank := int(t.Attr.Rank)
		if rank == 0 {
			rank = i + 1
		}
		tracks = append(tracks, TopTrack{
			Rank:       rank,
			Name:       t.Name,
			MBID:       t.MBID,
			URL:        t.URL,
			Artist:     t.Artist.value(),
			ArtistMBID: t.Artist.MBID,
			PlayCount:  int(t.PlayCount),
			Listeners:  int(t.Listeners),
			Duration:   time.Duration(t.Duration) * time.Second,
			Images:     convertImages(t.Image),
		})
	}
	return tracks
}
