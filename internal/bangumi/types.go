package bangumi

import "strconv"

// SubjectType is the bgm.tv subject category.
type SubjectType int

const (
	SubjectBook  SubjectType = 1
	SubjectAnime SubjectType = 2
	SubjectMusic SubjectType = 3
	SubjectGame  SubjectType = 4
	SubjectReal  SubjectType = 6
)

// Name returns the display label of the category.
func (t SubjectType) Name() string {
	switch t {
	case SubjectBook:
		return "书籍"
	case SubjectAnime:
		return "动画"
	case SubjectMusic:
		return "音乐"
	case SubjectGame:
		return "游戏"
	case SubjectReal:
		return "三次元"
	default:
		return "条目"
	}
}

// CollectionStatus is the state of a subject in the user's collection.
type CollectionStatus string

const (
	StatusWish    CollectionStatus = "wish"
	StatusDo      CollectionStatus = "do"
	StatusCollect CollectionStatus = "collect"
	StatusOnHold  CollectionStatus = "on_hold"
	StatusDropped CollectionStatus = "dropped"
)

var statusCycle = []CollectionStatus{StatusWish, StatusDo, StatusCollect, StatusOnHold, StatusDropped}

// Display returns the label shown in the UI.
func (s CollectionStatus) Display() string {
	switch s {
	case StatusWish:
		return "打算做"
	case StatusDo:
		return "在做了"
	case StatusCollect:
		return "完成了"
	case StatusOnHold:
		return "摸了"
	case StatusDropped:
		return "没得了"
	default:
		return "没打算"
	}
}

// Rotate returns the next status in the editing cycle.
func (s CollectionStatus) Rotate() CollectionStatus {
	return s.step(1)
}

// RotateBack returns the previous status in the editing cycle.
func (s CollectionStatus) RotateBack() CollectionStatus {
	return s.step(-1)
}

func (s CollectionStatus) step(delta int) CollectionStatus {
	for i, st := range statusCycle {
		if st == s {
			n := len(statusCycle)
			return statusCycle[((i+delta)%n+n)%n]
		}
	}
	return StatusWish
}

// Images holds subject cover URLs.
type Images struct {
	Large  string `json:"large"`
	Common string `json:"common"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
	Grid   string `json:"grid"`
}

// Subject is the small representation of a bgm.tv subject.
type Subject struct {
	ID         int         `json:"id"`
	URL        string      `json:"url"`
	Type       SubjectType `json:"type"`
	Name       string      `json:"name"`
	NameCN     string      `json:"name_cn"`
	Summary    string      `json:"summary"`
	Eps        int         `json:"eps"`
	EpsCount   int         `json:"eps_count"`
	VolsCount  int         `json:"vols_count"`
	AirDate    string      `json:"air_date"`
	AirWeekday int         `json:"air_weekday"`
	Images     Images      `json:"images"`
}

// TotalEps returns the known episode count, or 0 when unknown.
func (s Subject) TotalEps() int {
	if s.EpsCount > 0 {
		return s.EpsCount
	}
	return s.Eps
}

// Title returns the localized name when present.
func (s Subject) Title() string {
	if s.NameCN != "" {
		return s.NameCN
	}
	return s.Name
}

// CollectionEntry is one subject the user is currently watching or reading.
type CollectionEntry struct {
	Name      string  `json:"name"`
	SubjectID int     `json:"subject_id"`
	EpStatus  int     `json:"ep_status"`
	VolStatus int     `json:"vol_status"`
	LastTouch int64   `json:"lasttouch"`
	Subject   Subject `json:"subject"`
}

// StepEp returns the watched episode count moved by delta, kept within zero
// and the known total.
func (e CollectionEntry) StepEp(delta int) int {
	return saturate(e.EpStatus+delta, e.Subject.TotalEps())
}

// StepVol returns the read volume count moved by delta, kept within zero
// and the known total.
func (e CollectionEntry) StepVol(delta int) int {
	return saturate(e.VolStatus+delta, e.Subject.VolsCount)
}

func saturate(v, total int) int {
	if v < 0 {
		return 0
	}
	if total > 0 && v > total {
		return total
	}
	return v
}

// StatusInfo describes the collection status as returned by the API.
type StatusInfo struct {
	ID   int              `json:"id"`
	Type CollectionStatus `json:"type"`
	Name string           `json:"name"`
}

// CollectionDetail is the user's collection record for one subject.
type CollectionDetail struct {
	Status    StatusInfo `json:"status"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	Private   int        `json:"private"`
	Tag       []string   `json:"tag"`
	EpStatus  int        `json:"ep_status"`
	LastTouch int64      `json:"lasttouch"`
}

// Clone returns a deep copy.
func (d *CollectionDetail) Clone() *CollectionDetail {
	if d == nil {
		return nil
	}
	dup := *d
	dup.Tag = append([]string(nil), d.Tag...)
	return &dup
}

// RatingDisplay returns the rating label shown in the UI.
func (d CollectionDetail) RatingDisplay() string {
	if d.Rating == 0 {
		return "未评分"
	}
	return strconv.Itoa(d.Rating) + " / 10"
}

// SearchResult is one page of subject search results.
type SearchResult struct {
	Count int       `json:"results"`
	List  []Subject `json:"list"`
}

// apiStatus is the envelope the API uses to report errors with a 200 status.
type apiStatus struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}
