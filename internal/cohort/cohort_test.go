package cohort_test

import (
	"reflect"
	"testing"
	"time"

	"quiz-analytics-service/internal/cohort"
	"quiz-analytics-service/internal/domain"
)

func TestAggregateEmptyCohort(t *testing.T) {
	report := cohort.Aggregate(testQuiz(), nil, cohort.DefaultOptions())

	if report.ErrorRanking == nil || len(report.ErrorRanking) != 0 {
		t.Fatalf("expected empty, non-nil ranking, got %#v", report.ErrorRanking)
	}
	if len(report.Leaderboard) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", report.Leaderboard)
	}
	k := report.KPIs
	if k.Responses != 0 || k.AverageScore != 0 || k.AverageTime != 0 || k.PassRate != 0 {
		t.Fatalf("expected zero KPIs, got %+v", k)
	}
	if len(k.ScoreBuckets) != 5 || k.ScoreBuckets[4].Label != "81-100" {
		t.Fatalf("expected five labelled buckets, got %+v", k.ScoreBuckets)
	}
	if len(report.Distributions) != len(testQuiz().Questions) {
		t.Fatalf("expected a distribution per question, got %d", len(report.Distributions))
	}
}

func TestDistributions(t *testing.T) {
	responses := []domain.Response{
		{ID: "r1", Answers: domain.AnswerSet{
			"c1": domain.Selection("A"),
			"m1": domain.Selections{"A", "C"},
			"h1": domain.Pins{{X: 5, Y: 5}, {X: 55, Y: 55}},
			"s1": domain.Placement{"i1": "X", "i2": "X"},
		}},
		{ID: "r2", Answers: domain.AnswerSet{
			"c1": domain.Selection("Z"),
			"m1": domain.Selections{"C"},
			"h1": domain.Pins{{X: 5, Y: 5}},
		}},
		{ID: "r3"},
	}

	dists := cohort.Distributions(testQuiz(), responses)
	byID := map[string]cohort.Distribution{}
	for _, d := range dists {
		byID[d.QuestionID] = d
	}

	wantChoice := []cohort.OptionCount{{Label: "A", Count: 1}, {Label: "B", Count: 0}, {Label: "Z", Count: 1}}
	if got := byID["c1"].Options; !reflect.DeepEqual(got, wantChoice) {
		t.Fatalf("choice counts: expected %+v, got %+v", wantChoice, got)
	}
	if byID["c1"].Answered != 2 {
		t.Fatalf("expected 2 answered, got %d", byID["c1"].Answered)
	}

	wantMulti := []cohort.OptionCount{{Label: "A", Count: 1}, {Label: "B", Count: 0}, {Label: "C", Count: 2}}
	if got := byID["m1"].Options; !reflect.DeepEqual(got, wantMulti) {
		t.Fatalf("multi counts: expected %+v, got %+v", wantMulti, got)
	}

	if h := byID["h1"]; h.Pass != 1 || h.Fail != 2 {
		t.Fatalf("hotspot: expected 1 pass 2 fail, got %+v", h)
	}

	wantItems := []cohort.ItemTally{
		{ItemID: "i1", ItemText: "first", Correct: 1, Missed: 2},
		{ItemID: "i2", ItemText: "second", Wrong: 1, Missed: 2},
	}
	if got := byID["s1"].Items; !reflect.DeepEqual(got, wantItems) {
		t.Fatalf("sorting tallies: expected %+v, got %+v", wantItems, got)
	}
}

func TestErrorRanking(t *testing.T) {
	quiz := testQuiz()
	responses := []domain.Response{
		{Answers: domain.AnswerSet{
			"c1": domain.Selection("A"),
			"m1": domain.Selections{"A", "C"},
			"h1": domain.Pins{{X: 5, Y: 5}},
			"s1": domain.Placement{"i1": "X", "i2": "Y"},
		}},
		{Answers: domain.AnswerSet{
			"c1": domain.Selection("A"),
			"h1": domain.Pins{{X: 5, Y: 5}, {X: 55, Y: 55}},
		}},
	}

	ranking := cohort.ErrorRanking(quiz, responses, 0)
	got := make([]string, 0, len(ranking))
	rates := map[string]int{}
	for _, r := range ranking {
		got = append(got, r.QuestionID)
		rates[r.QuestionID] = r.ErrorRate
	}
	// survey is unscored and free has no points.
	want := []string{"m1", "s1", "h1", "c1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if rates["m1"] != 50 || rates["s1"] != 50 || rates["h1"] != 25 || rates["c1"] != 0 {
		t.Fatalf("unexpected error rates %v", rates)
	}

	if top := cohort.ErrorRanking(quiz, responses, 2); len(top) != 2 || top[0].QuestionID != "m1" {
		t.Fatalf("expected the top two rows, got %+v", top)
	}
}

func TestSortingDistributionUncategorizedItem(t *testing.T) {
	quiz := domain.Quiz{ID: "q", Questions: []domain.Question{{ID: "s", Points: 10, Body: &domain.SortingBody{
		Categories: []string{"X"},
		Items:      []domain.SortItem{{ID: "i1", Text: "real", CorrectCategory: "X"}, {ID: "i2", Text: "decoy"}},
	}}}}
	responses := []domain.Response{
		{Answers: domain.AnswerSet{"s": domain.Placement{"i1": "X", "i2": "X"}}},
		{Answers: domain.AnswerSet{"s": domain.Placement{"i1": "X"}}},
	}

	items := cohort.Distributions(quiz, responses)[0].Items
	want := []cohort.ItemTally{
		{ItemID: "i1", ItemText: "real", Correct: 2},
		{ItemID: "i2", ItemText: "decoy", Wrong: 1, Missed: 1},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("unexpected tallies %+v", items)
	}
}

func TestPassThresholdZeroPassesEveryone(t *testing.T) {
	quiz := domain.Quiz{ID: "q", Questions: []domain.Question{choice("c1", 10, false)}}
	responses := []domain.Response{
		{Answers: domain.AnswerSet{"c1": domain.Selection("A")}},
		{Answers: domain.AnswerSet{}},
	}

	k := cohort.ComputeKPIs(quiz, responses, cohort.Options{Basis: cohort.BasisPoints, PassThreshold: 0})
	if k.PassRate != 100 {
		t.Fatalf("expected a zero threshold to pass everyone, got %d", k.PassRate)
	}

	k = cohort.ComputeKPIs(quiz, responses, cohort.Options{})
	if k.Basis != cohort.BasisSkills {
		t.Fatalf("expected zero options to select the defaults, got %+v", k)
	}
	points := cohort.DefaultOptions()
	points.Basis = cohort.BasisPoints
	if got := cohort.ComputeKPIs(quiz, responses, points).PassRate; got != 50 {
		t.Fatalf("expected default threshold to pass one of two, got %d", got)
	}
}

func TestComputeKPIsPointsBasis(t *testing.T) {
	quiz := domain.Quiz{ID: "q", Questions: []domain.Question{choice("c1", 10, false), choice("c2", 10, false)}}
	at := func(hour int) time.Time { return time.Date(2024, 5, 1, hour, 30, 0, 0, time.UTC) }
	responses := []domain.Response{
		{Answers: domain.AnswerSet{"c1": domain.Selection("A"), "c2": domain.Selection("A")}, TotalTime: 30, SubmittedAt: at(9)},
		{Answers: domain.AnswerSet{"c1": domain.Selection("A")}, TotalTime: 60, SubmittedAt: at(9)},
		{Answers: domain.AnswerSet{}, TotalTime: 90, SubmittedAt: at(14)},
		{Answers: domain.AnswerSet{"c1": domain.Selection("A")}},
	}
	opts := cohort.DefaultOptions()
	opts.Basis = cohort.BasisPoints

	k := cohort.ComputeKPIs(quiz, responses, opts)
	// composites: 100, 50, 0, 50
	if k.Responses != 4 || k.AverageScore != 50 || k.AverageTime != 45 {
		t.Fatalf("unexpected averages %+v", k)
	}
	if k.PassRate != 25 {
		t.Fatalf("expected 25%% pass rate, got %d", k.PassRate)
	}
	wantBuckets := []int{1, 0, 2, 0, 1}
	for i, b := range k.ScoreBuckets {
		if b.Count != wantBuckets[i] {
			t.Fatalf("bucket %s: expected %d, got %d", b.Label, wantBuckets[i], b.Count)
		}
	}
	wantHours := []cohort.HourCount{{Hour: 9, Label: "9:00", Count: 2}, {Hour: 14, Label: "14:00", Count: 1}}
	if !reflect.DeepEqual(k.Submissions, wantHours) {
		t.Fatalf("expected %+v, got %+v", wantHours, k.Submissions)
	}

	taipei := time.FixedZone("UTC+8", 8*60*60)
	opts.Location = taipei
	shifted := cohort.ComputeKPIs(quiz, responses, opts)
	if shifted.Submissions[0].Hour != 17 || shifted.Submissions[1].Hour != 22 {
		t.Fatalf("expected hours in the configured zone, got %+v", shifted.Submissions)
	}
}

func TestComputeKPIsSkillsBasisUsesStoredStatsWithoutTimes(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{choice("c1", 10, false)}}
	stored := domain.SkillVector{
		{Subject: domain.AxisObservation, A: 80},
		{Subject: domain.AxisDecision, A: 80},
		{Subject: domain.AxisLogic, A: 80},
		{Subject: domain.AxisReaction, A: 80},
		{Subject: domain.AxisFocus, A: 80},
	}
	k := cohort.ComputeKPIs(quiz, []domain.Response{{Answers: domain.AnswerSet{}, Stats: stored}}, cohort.DefaultOptions())
	if k.AverageScore != 80 || k.PassRate != 100 {
		t.Fatalf("expected stored composite 80, got %+v", k)
	}

	recomputed := cohort.ComputeKPIs(quiz, []domain.Response{{
		Answers: domain.AnswerSet{"c1": domain.Selection("A")},
		Times:   domain.TimeLog{"c1": 2},
		Stats:   stored,
	}}, cohort.DefaultOptions())
	// observation 50, decision 50, logic 100, reaction 90, focus 100
	if recomputed.AverageScore != 78 {
		t.Fatalf("expected recomputed composite 78, got %d", recomputed.AverageScore)
	}
}

func TestLeaderboard(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{choice("c1", 10, false), choice("c2", 10, false)}}
	both := domain.AnswerSet{"c1": domain.Selection("A"), "c2": domain.Selection("A")}
	one := domain.AnswerSet{"c1": domain.Selection("A")}
	responses := []domain.Response{
		{ID: "slow", Nickname: "Slow", Answers: both, TotalTime: 90},
		{ID: "guest", Nickname: " guest ", Answers: both, TotalTime: 1},
		{ID: "anon", Nickname: "", Answers: both, TotalTime: 1},
		{ID: "fast", Nickname: "Fast", Answers: both, TotalTime: 20},
		{ID: "half", Nickname: "Half", Answers: one, TotalTime: 5},
		{ID: "late", Nickname: "Late", Answers: one, TotalTime: 50},
	}
	opts := cohort.DefaultOptions()
	opts.Basis = cohort.BasisPoints

	board := cohort.Leaderboard(quiz, responses, opts)
	got := make([]string, 0, len(board))
	for _, e := range board {
		got = append(got, e.ResponseID)
	}
	if want := []string{"fast", "slow", "half"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if board[0].Rank != 1 || board[2].Rank != 3 || board[0].Score != 100 {
		t.Fatalf("unexpected entries %+v", board)
	}

	// Guests still count toward the KPIs.
	if k := cohort.ComputeKPIs(quiz, responses, opts); k.Responses != 6 {
		t.Fatalf("expected all responses in KPIs, got %d", k.Responses)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	quiz := testQuiz()
	responses := []domain.Response{
		{ID: "r1", Nickname: "A", Answers: domain.AnswerSet{"c1": domain.Selection("A")}, Times: domain.TimeLog{"c1": 3}},
		{ID: "r2", Nickname: "B", Answers: domain.AnswerSet{"s1": domain.Placement{"i1": "X"}}, Times: domain.TimeLog{"s1": 8}},
	}
	first := cohort.Aggregate(quiz, responses, cohort.DefaultOptions())
	second := cohort.Aggregate(quiz, responses, cohort.DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports")
	}
	if first.QuizID != "quiz-1" || len(first.Leaderboard) != 2 {
		t.Fatalf("unexpected report %+v", first)
	}
}

func TestParseBasis(t *testing.T) {
	for in, want := range map[string]cohort.Basis{"": cohort.BasisSkills, "skills": cohort.BasisSkills, "points": cohort.BasisPoints} {
		got, err := cohort.ParseBasis(in)
		if err != nil || got != want {
			t.Fatalf("ParseBasis(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := cohort.ParseBasis("median"); err == nil {
		t.Fatalf("expected an error for an unknown basis")
	}
}

func testQuiz() domain.Quiz {
	survey := choice("survey", 5, false)
	survey.Unscored = true
	return domain.Quiz{ID: "quiz-1", Title: "Safety", Questions: []domain.Question{
		choice("c1", 10, false),
		choice("m1", 10, true),
		{ID: "h1", Points: 10, Body: &domain.HotspotBody{MaxClicks: 2, Targets: []domain.Target{
			{ID: "t1", Points: []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}},
			{ID: "t2", Points: []domain.Point{{X: 50, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: 60}, {X: 50, Y: 60}}},
		}}},
		{ID: "s1", Points: 10, Body: &domain.SortingBody{Categories: []string{"X", "Y"}, Items: []domain.SortItem{
			{ID: "i1", Text: "first", CorrectCategory: "X"},
			{ID: "i2", Text: "second", CorrectCategory: "Y"},
		}}},
		survey,
		choice("free", 0, false),
	}}
}

// choice builds a question over options A, B, C. Single-select questions
// expect A; multi-select ones expect A and C.
func choice(id string, points int, multi bool) domain.Question {
	options := []domain.Option{{Label: "A", IsCorrect: true}, {Label: "B"}}
	if multi {
		options = append(options, domain.Option{Label: "C", IsCorrect: true})
	}
	return domain.Question{ID: id, Points: points, Body: &domain.ChoiceBody{Options: options, Multi: multi}}
}
