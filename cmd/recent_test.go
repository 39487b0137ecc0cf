package cmd

import "testing"

func TestCheckPage(t *testing.T) {
	tests := []struct {
		page    int
		wantErr bool
	}{
		{page: 0},
		{page: 1},
		{page: 12},
		{page: -1, wantErr: true},
	}

	for _, tt := range tests {
		err := checkPage(tt.page)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkPage(%d) error = %v, wantErr %v", tt.page, err, tt.wantErr)
		}
	}
}
