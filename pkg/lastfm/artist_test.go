package lastfm

import (
	"context"
	"net/http"
	"testing"
)

func TestArtistService_Info(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("username") != "rj" {
			t.Errorf("expected username rj, got %s", q.Get("username"))
		}
		if q.Get("autocorrect") != "1" {
			t.Errorf("expected autocorrect 1, got %s", q.Get("autocorrect"))
		}
		writeBody(t, w, http.StatusOK, `{"artist":{
			"name":"Cher","mbid":"m1","url":"https://www.last.fm/music/Cher",
			"image":[{"#text":"https://img/l.png","size":"large"}],
			"ontour":"0",
			"stats":{"listeners":"1200","playcount":"99000","userplaycount":"37"},
			"similar":{"artist":[{"name":"Madonna"},{"name":"Kylie Minogue"}]},
			"tags":{"tag":{"name":"pop","url":"https://www.last.fm/tag/pop"}},
			"bio":{"summary":"Cher is a singer."}
		}}`)
	}, 0)

	info, err := client.Artist().Info(context.Background(), "Cher", "rj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.UserPlayCount != 37 || info.Listeners != 1200 || info.PlayCount != 99000 {
		t.Errorf("unexpected stats: %+v", info)
	}
	if len(info.Tags) != 1 || info.Tags[0].Name != "pop" {
		t.Errorf("expected single pop tag, got %+v", info.Tags)
	}
	if len(info.Similar) != 2 || info.Similar[1].Name != "Kylie Minogue" {
		t.Errorf("unexpected similar artists: %+v", info.Similar)
	}
	if info.OnTour {
		t.Error("expected OnTour false")
	}
	if BestImage(info.Images) != "https://img/l.png" {
		t.Errorf("unexpected image: %+v", info.Images)
	}
}

func TestArtistService_Info_EmptyTags(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{"artist":{"name":"Unknown","tags":"","similar":{"artist":[]}}}`)
	}, 0)

	info, err := client.Artist().Info(context.Background(), "Unknown", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Tags) != 0 || len(info.Similar) != 0 {
		t.Errorf("expected no tags or similar artists, got %+v", info)
	}
}

func TestArtistService_Similar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected limit 2, got %s", got)
		}
		writeBody(t, w, http.StatusOK, `{"similarartists":{"artist":[
			{"name":"Madonna","match":"1"},
			{"name":"Kylie Minogue","match":0.82},
			{"name":"Dua Lipa","match":"0.5"}
		]}}`)
	}, 0)

	similar, err := client.Artist().Similar(context.Background(), "Cher", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(similar) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(similar))
	}
	if similar[0].Match != 1 || similar[1].Match != 0.82 {
		t.Errorf("unexpected match values: %v, %v", similar[0].Match, similar[1].Match)
	}
}

func TestArtistService_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "artist.search" || q.Get("artist") != "radio" {
			t.Errorf("unexpected query: %v", q)
		}
		writeBody(t, w, http.StatusOK, `{"results":{"artistmatches":{"artist":[
			{"name":"Radiohead","listeners":"5000000"},
			{"name":"Radio Dept.","listeners":"90000"}
		]}}}`)
	}, 0)

	matches, err := client.Artist().Search(context.Background(), "radio", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 || matches[0].Name != "Radiohead" || matches[0].Listeners != 5000000 {
		t.Errorf("unexpected matches: %+v", matches)
	}
}

func TestArtistService_TopTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("method"); got != "artist.gettoptracks" {
			t.Errorf("expected artist.gettoptracks, got %s", got)
		}
		writeBody(t, w, http.StatusOK, `{"toptracks":{"track":{
			"name":"Believe","playcount":"100","listeners":"50",
			"artist":{"name":"Cher"},"@attr":{"rank":"1"}
		}}}`)
	}, 0)

	tracks, err := client.Artist().TopTracks(context.Background(), "Cher", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Artist != "Cher" || tracks[0].Listeners != 50 {
		t.Errorf("unexpected tracks: %+v", tracks)
	}
}
