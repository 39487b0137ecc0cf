package lastfm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ArtistService provides the artist.* methods of the Last.fm API.
type ArtistService struct {
	client *Client
}

type artistInfoResponse struct {
	Artist struct {
		Name   string     `json:"name"`
		MBID   string     `json:"mbid"`
		URL    string     `json:"url"`
		Image  []rawImage `json:"image"`
		OnTour flag       `json:"ontour"`
		Stats  struct {
			Listeners     count `json:"listeners"`
			PlayCount     count `json:"playcount"`
			UserPlayCount count `json:"userplaycount"`
		} `json:"stats"`
		Similar struct {
			Artist list[rawSimilarArtist] `json:"artist"`
		} `json:"similar"`
		Tags rawTags `json:"tags"`
		Bio  struct {
			Summary string `json:"summary"`
		} `json:"bio"`
	} `json:"artist"`
}

// Info returns artist metadata. When user is non-empty the response
// includes the user's play count for the artist.
//
// Example:
//
//	info, err := client.Artist().Info(ctx, "Cher", "rj")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.UserPlayCount)
func (s *ArtistService) Info(ctx context.Context, artist, user string) (*ArtistInfo, error) {
	if strings.TrimSpace(artist) == "" {
		return nil, fmt.Errorf("lastfm: artist is required")
	}
	params := map[string]string{
		"artist":      artist,
		"autocorrect": "1",
		"username":    user,
	}

	var resp artistInfoResponse
	if err := s.client.get(ctx, "artist.getinfo", params, &resp); err != nil {
		return nil, err
	}

	a := resp.Artist
	return &ArtistInfo{
		Name:          a.Name,
		MBID:          a.MBID,
		URL:           a.URL,
		Images:        convertImages(a.Image),
		Listeners:     int(a.Stats.Listeners),
		PlayCount:     int(a.Stats.PlayCount),
		UserPlayCount: int(a.Stats.UserPlayCount),
		OnTour:        bool(a.OnTour),
		Tags:          convertTags(a.Tags),
		Similar:       convertSimilar(a.Similar.Artist),
		Summary:       a.Bio.Summary,
	}, nil
}

type rawSimilarArtist struct {
	Name  string     `json:"name"`
	MBID  string     `json:"mbid"`
	URL   string     `json:"url"`
	Match float      `json:"match"`
	Image []rawImage `json:"image"`
}

type similarResponse struct {
	SimilarArtists struct {
		Artist list[rawSimilarArtist] `json:"artist"`
	} `json:"similarartists"`
}

// Similar returns up to limit artists similar to artist.
func (s *ArtistService) Similar(ctx context.Context, artist string, limit int) ([]SimilarArtist, error) {
	if strings.TrimSpace(artist) == "" {
		return nil, fmt.Errorf("lastfm: artist is required")
	}
	params := map[string]string{
		"artist":      artist,
		"autocorrect": "1",
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var resp similarResponse
	if err := s.client.get(ctx, "artist.getsimilar", params, &resp); err != nil {
		return nil, err
	}
	similar := convertSimilar(resp.SimilarArtists.Artist)
	if limit > 0 && len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

func convertSimilar(raw []rawSimilarArtist) []SimilarArtist {
	if len(raw) == 0 {
		return nil
	}
	artists := make([]SimilarArtist, 0, len(raw))
	for _, a := range raw {
		artists = append(artists, SimilarArtist{
			Name:   a.Name,
			MBID:   a.MBID,
			URL:    a.URL,
			Match:  float64(a.Match),
			Images: convertImages(a.Image),
		})
	}
	return artists
}

type artistSearchResponse struct {
	Results struct {
		ArtistMatches struct {
			Artist list[struct {
				Name      string     `json:"name"`
				MBID      string     `json:"mbid"`
				URL       string     `json:"url"`
				Listeners count      `json:"listeners"`
				Image     []rawImage `json:"image"`
			}] `json:"artist"`
		} `json:"artistmatches"`
	} `json:"results"`
}

// Search returns artists whose name matches query.
func (s *ArtistService) Search(ctx context.Context, query string, limit int) ([]ArtistMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("lastfm: query is required")
	}
	params := map[string]string{"artist": query}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var resp artistSearchResponse
	if err := s.client.get(ctx, "artist.search", params, &resp); err != nil {
		return nil, err
	}

	matches := make([]ArtistMatch, 0, len(resp.Results.ArtistMatches.Artist))
	for _, a := range resp.Results.ArtistMatches.Artist {
		matches = append(matches, ArtistMatch{
			Name:      a.Name,
			MBID:      a.MBID,
			URL:       a.URL,
			Listeners: int(a.Listeners),
			Images:    convertImages(a.Image),
		})
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

type artistTopTracksResponse struct {
	TopTracks struct {
		Track list[rawTopTrack] `json:"track"`
	} `json:"toptracks"`
}

// TopTracks returns the artist's most popular tracks across Last.fm.
func (s *ArtistService) TopTracks(ctx context.Context, artist string, limit int) ([]TopTrack, error) {
	if strings.TrimSpace(artist) == "" {
		return nil, fmt.Errorf("lastfm: artist is required")
	}
	params := map[string]string{
		"artist":      artist,
		"autocorrect": "1",
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var resp artistTopTracksResponse
	if err := s.client.get(ctx, "artist.gettoptracks", params, &resp); err != nil {
		return nil, err
	}
	tracks := convertTopTracks(resp.TopTracks.Track)
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}
