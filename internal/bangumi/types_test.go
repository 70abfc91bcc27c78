package bangumi

import "testing"

func TestCollectionEntry_StepEpSaturates(t *testing.T) {
	entry := CollectionEntry{EpStatus: 5, Subject: Subject{EpsCount: 12}}

	tests := []struct {
		name   string
		status int
		delta  int
		want   int
	}{
		{"increment", 5, 1, 6},
		{"decrement", 5, -1, 4},
		{"at total", 12, 1, 12},
		{"at zero", 0, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entry
			e.EpStatus = tt.status
			if got := e.StepEp(tt.delta); got != tt.want {
				t.Fatalf("StepEp(%d) at %d = %d, want %d", tt.delta, tt.status, got, tt.want)
			}
		})
	}
}

func TestCollectionEntry_StepUnknownTotal(t *testing.T) {
	e := CollectionEntry{EpStatus: 40, VolStatus: 3}
	if got := e.StepEp(1); got != 41 {
		t.Fatalf("StepEp = %d, want 41 with unknown total", got)
	}
	if got := e.StepVol(1); got != 4 {
		t.Fatalf("StepVol = %d, want 4 with unknown total", got)
	}

	e.Subject.Eps = 40
	if got := e.StepEp(1); got != 40 {
		t.Fatalf("StepEp = %d, want 40 when eps is the total", got)
	}
}

func TestCollectionStatus_RotateCycles(t *testing.T) {
	s := StatusWish
	seen := []CollectionStatus{s}
	for i := 0; i < 5; i++ {
		s = s.Rotate()
		seen = append(seen, s)
	}
	want := []CollectionStatus{StatusWish, StatusDo, StatusCollect, StatusOnHold, StatusDropped, StatusWish}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("rotation = %v, want %v", seen, want)
		}
	}
	if StatusWish.RotateBack() != StatusDropped {
		t.Fatalf("RotateBack(wish) = %v, want dropped", StatusWish.RotateBack())
	}
	if CollectionStatus("").Rotate() != StatusWish {
		t.Fatal("unknown status should rotate to wish")
	}
}

func TestCollectionStatus_Display(t *testing.T) {
	if StatusDo.Display() != "在做了" {
		t.Fatalf("Display(do) = %q", StatusDo.Display())
	}
	if CollectionStatus("").Display() != "没打算" {
		t.Fatalf("Display(empty) = %q", CollectionStatus("").Display())
	}
}

func TestCollectionDetail_CloneAndRating(t *testing.T) {
	d := &CollectionDetail{Rating: 0, Tag: []string{"a"}}
	dup := d.Clone()
	dup.Tag[0] = "b"
	if d.Tag[0] != "a" {
		t.Fatal("Clone should copy tags")
	}
	if d.RatingDisplay() != "未评分" {
		t.Fatalf("RatingDisplay = %q", d.RatingDisplay())
	}
	d.Rating = 8
	if d.RatingDisplay() != "8 / 10" {
		t.Fatalf("RatingDisplay = %q", d.RatingDisplay())
	}
	var nilDetail *CollectionDetail
	if nilDetail.Clone() != nil {
		t.Fatal("Clone(nil) should be nil")
	}
}

func TestSubject_TitleAndTotal(t *testing.T) {
	s := Subject{Name: "Cowboy Bebop", Eps: 26}
	if s.Title() != "Cowboy Bebop" || s.TotalEps() != 26 {
		t.Fatalf("Title/TotalEps = %q/%d", s.Title(), s.TotalEps())
	}
	s.NameCN = "星际牛仔"
	s.EpsCount = 27
	if s.Title() != "星际牛仔" || s.TotalEps() != 27 {
		t.Fatalf("Title/TotalEps = %q/%d", s.Title(), s.TotalEps())
	}
}
