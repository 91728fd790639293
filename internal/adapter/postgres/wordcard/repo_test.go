package wordcard_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wordnest/wordnest-backend/internal/adapter/postgres"
	"github.com/wordnest/wordnest-backend/internal/adapter/postgres/testhelper"
	"github.com/wordnest/wordnest-backend/internal/adapter/postgres/wordcard"
	"github.com/wordnest/wordnest-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*wordcard.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	txm := postgres.NewTxManager(pool)
	return wordcard.New(pool, txm), pool
}

// uniq returns a random suffix so parallel tests sharing the database never
// collide on vc_ids or words.
func uniq() string {
	return uuid.New().String()[:8]
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Get(context.Background(), "vc-missing-"+uniq())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want domain.ErrNotFound", err)
	}
}

func TestRepo_Upsert_InsertAndGet(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	vcID := "vc-" + uniq()
	word := "insertword" + uniq()

	created, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:        vcID,
		Word:        "  " + word + "  ",
		Translation: "n. 测试",
		AudioUS:     "https://audio.example/" + word + "-us.mp3",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.Word != word {
		t.Errorf("Word = %q, want trimmed %q", created.Word, word)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set on insert")
	}

	got, err := repo.Get(ctx, vcID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Translation != "n. 测试" {
		t.Errorf("Translation = %q", got.Translation)
	}
	if got.AudioUK != "" {
		t.Errorf("AudioUK = %q, want empty", got.AudioUK)
	}
}

func TestRepo_Upsert_MergeFillsOnlyGaps(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	vcID := "vc-" + uniq()
	word := "mergeword" + uniq()

	if _, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:        vcID,
		Word:        word,
		Translation: "n. 原始翻译",
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	merged, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:        vcID,
		Word:        word,
		Translation: "n. 后来的翻译",
		Example:     "a merge example",
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if merged.Translation != "n. 原始翻译" {
		t.Errorf("Translation = %q, existing value must win", merged.Translation)
	}
	if merged.Example != "a merge example" {
		t.Errorf("Example = %q, gap must be filled", merged.Example)
	}
}

func TestRepo_Upsert_ConcurrentWritersConverge(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	vcID := "vc-" + uniq()
	word := "raceword" + uniq()

	// Disjoint fields from concurrent writers must union into one row.
	writes := []*domain.WordCard{
		{VCID: vcID, Word: word, Translation: "n. 并发"},
		{VCID: vcID, Word: word, Example: "a race example"},
		{VCID: vcID, Word: word, ImageURL: "/uploads/r/" + word + ".jpg"},
		{VCID: vcID, Word: word, AudioUS: "https://audio.example/" + word + "-us.mp3"},
		{VCID: vcID, Word: word, AudioUK: "https://audio.example/" + word + "-uk.mp3"},
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(writes))
	for _, w := range writes {
		wg.Add(1)
		go func(card *domain.WordCard) {
			defer wg.Done()
			if _, err := repo.Upsert(ctx, card); err != nil {
				errs <- err
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Upsert: %v", err)
	}

	got, err := repo.Get(ctx, vcID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Complete() {
		t.Errorf("card not complete after concurrent disjoint writes: %+v", got)
	}
	if got.Translation != "n. 并发" || got.Example != "a race example" {
		t.Errorf("fields lost in merge: %+v", got)
	}
}

func TestRepo_GetByWord_CaseInsensitive(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	vcID := "vc-" + uniq()
	word := "caseword" + uniq()

	if _, err := repo.Upsert(ctx, &domain.WordCard{VCID: vcID, Word: word}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByWord(ctx, "  "+word+"  ")
	if err != nil {
		t.Fatalf("GetByWord: %v", err)
	}
	if got.VCID != vcID {
		t.Errorf("VCID = %q, want %q", got.VCID, vcID)
	}

	if _, err := repo.GetByWord(ctx, "missingword"+uniq()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want domain.ErrNotFound", err)
	}
}

func TestRepo_SuggestByPrefix(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	prefix := "sugg" + uniq()
	for _, suffix := range []string{"c", "a", "b", "d"} {
		vcID := "vc-" + uniq()
		if _, err := repo.Upsert(ctx, &domain.WordCard{VCID: vcID, Word: prefix + suffix}); err != nil {
			t.Fatalf("seed Upsert: %v", err)
		}
	}

	words, err := repo.SuggestByPrefix(ctx, prefix, 3)
	if err != nil {
		t.Fatalf("SuggestByPrefix: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3: %v", len(words), words)
	}
	want := []string{prefix + "a", prefix + "b", prefix + "c"}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("words[%d] = %q, want %q (alphabetical order)", i, words[i], want[i])
		}
	}
}

func TestRepo_SuggestByPrefix_EscapesLikeMetacharacters(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	word := "literalword" + uniq()
	if _, err := repo.Upsert(ctx, &domain.WordCard{VCID: "vc-" + uniq(), Word: word}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// "%" must not act as a wildcard.
	words, err := repo.SuggestByPrefix(ctx, "%"+word, 10)
	if err != nil {
		t.Fatalf("SuggestByPrefix: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("wildcard prefix matched %v, want nothing", words)
	}
}

func TestRepo_ListIncomplete(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	completeID := "vc-" + uniq()
	incompleteID := "vc-" + uniq()

	if _, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:        completeID,
		Word:        "completeword" + uniq(),
		Translation: "n. 完整",
		Example:     "a complete example",
		ImageURL:    "/uploads/c/complete.jpg",
		AudioUS:     "https://audio.example/c-us.mp3",
		AudioUK:     "https://audio.example/c-uk.mp3",
	}); err != nil {
		t.Fatalf("seed complete: %v", err)
	}
	if _, err := repo.Upsert(ctx, &domain.WordCard{
		VCID: incompleteID,
		Word: "incompleteword" + uniq(),
	}); err != nil {
		t.Fatalf("seed incomplete: %v", err)
	}

	cards, err := repo.ListIncomplete(ctx, 10000)
	if err != nil {
		t.Fatalf("ListIncomplete: %v", err)
	}

	foundIncomplete := false
	for _, c := range cards {
		if c.VCID == completeID {
			t.Error("complete card listed as incomplete")
		}
		if c.VCID == incompleteID {
			foundIncomplete = true
		}
	}
	if !foundIncomplete {
		t.Error("incomplete card missing from listing")
	}
}

func TestRepo_Sources(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	source := "source-" + uniq()
	if _, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:   "vc-" + uniq(),
		Word:   "sourceword" + uniq(),
		Source: source,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	sources, err := repo.Sources(ctx)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}

	found := false
	for _, s := range sources {
		if s == "" {
			t.Error("empty source tag listed")
		}
		if s == source {
			found = true
		}
	}
	if !found {
		t.Errorf("source %q missing from %v", source, sources)
	}
}

func TestRepo_List_Filters(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	marker := "listmark" + uniq()
	source := "source-" + uniq()

	withImage := "vc-" + uniq()
	withoutImage := "vc-" + uniq()

	if _, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:     withImage,
		Word:     marker + "pictured",
		ImageURL: "/uploads/l/" + marker + ".jpg",
		Source:   source,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.Upsert(ctx, &domain.WordCard{
		VCID:   withoutImage,
		Word:   marker + "plain",
		Source: source,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	search := marker
	page, err := repo.List(ctx, wordcard.Filter{Search: &search})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Cards) != 2 {
		t.Fatalf("search total = %d, cards = %d, want 2/2", page.Total, len(page.Cards))
	}

	hasImage := false
	page, err = repo.List(ctx, wordcard.Filter{Search: &search, HasImage: &hasImage})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 || page.Cards[0].VCID != withoutImage {
		t.Fatalf("missing-image filter returned %+v", page)
	}

	page, err = repo.List(ctx, wordcard.Filter{Source: &source, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Cards) != 1 {
		t.Fatalf("source filter with limit: total = %d, cards = %d, want 2/1", page.Total, len(page.Cards))
	}
}
