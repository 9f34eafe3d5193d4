package sentiment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/spacesedan/sentigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	label string
	score float64
	err   error

	mu    sync.Mutex
	calls []string
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (string, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	return f.label, f.score, f.err
}

func staticFactory(c Classifier, builds *int32) ClassifierFactory {
	return func(context.Context) (Classifier, error) {
		if builds != nil {
			atomic.AddInt32(builds, 1)
		}
		return c, nil
	}
}

func TestDetectBlankInputSkipsEngine(t *testing.T) {
	var builds int32
	fake := &fakeClassifier{label: "NEGATIVE", score: 0.99}
	d := NewDetector(staticFactory(fake, &builds))

	for _, input := range []string{"", " ", "\n\t  \n"} {
		got, err := d.Detect(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, models.SentimentResult{Label: models.SentimentNeutral, Confidence: 1.0}, got)
	}

	assert.Zero(t, atomic.LoadInt32(&builds), "engine must not be constructed for blank input")
	assert.Empty(t, fake.calls)
}

func TestDetectThreshold(t *testing.T) {
	tests := []struct {
		name      string
		rawLabel  string
		score     float64
		wantLabel models.Sentiment
	}{
		{"confident positive", "POSITIVE", 0.98, models.SentimentPositive},
		{"confident negative", "NEGATIVE", 0.91, models.SentimentNegative},
		{"exactly at threshold keeps label", "Positive", 0.55, models.SentimentPositive},
		{"just below threshold", "POSITIVE", 0.5499, models.SentimentNeutral},
		{"low confidence negative", "NEGATIVE", 0.30, models.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(staticFactory(&fakeClassifier{label: tt.rawLabel, score: tt.score}, nil))

			got, err := d.Detect(context.Background(), "some prompt")
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.score, got.Confidence, "raw confidence is always reported")
		})
	}
}

func TestDetectCustomThreshold(t *testing.T) {
	d := NewDetector(staticFactory(&fakeClassifier{label: "POSITIVE", score: 0.7}, nil), WithNeutralThreshold(0.8))

	got, err := d.Detect(context.Background(), "fine")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, got.Label)
}

func TestDetectTruncatesInput(t *testing.T) {
	fake := &fakeClassifier{label: "POSITIVE", score: 0.9}
	d := NewDetector(staticFactory(fake, nil))

	long := strings.Repeat("é", MaxInputRunes+100)
	_, err := d.Detect(context.Background(), long)
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, MaxInputRunes, utf8.RuneCountInString(fake.calls[0]))
}

func TestDetectCachesEngine(t *testing.T) {
	var builds int32
	d := NewDetector(staticFactory(&fakeClassifier{label: "POSITIVE", score: 0.9}, &builds))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Detect(context.Background(), "hello")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestDetectRetriesFailedConstruction(t *testing.T) {
	var attempts int32
	fake := &fakeClassifier{label: "NEGATIVE", score: 0.9}
	d := NewDetector(func(context.Context) (Classifier, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, errors.New("model unavailable")
		}
		return fake, nil
	})

	_, err := d.Detect(context.Background(), "hello")
	require.Error(t, err)

	got, err := d.Detect(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, got.Label)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestDetectPropagatesEngineError(t *testing.T) {
	engineErr := errors.New("out of memory")
	d := NewDetector(staticFactory(&fakeClassifier{err: engineErr}, nil))

	_, err := d.Detect(context.Background(), "hello")
	assert.ErrorIs(t, err, engineErr)
}

type closingClassifier struct {
	fakeClassifier
	closed bool
}

func (c *closingClassifier) Close() error {
	c.closed = true
	return nil
}

func TestDetectorClose(t *testing.T) {
	c := &closingClassifier{fakeClassifier: fakeClassifier{label: "POSITIVE", score: 0.9}}
	d := NewDetector(staticFactory(c, nil))

	require.NoError(t, d.Close(), "closing before first use is a no-op")

	_, err := d.Detect(context.Background(), "hi")
	require.NoError(t, err)
	require.NoError(t, d.Close())
	assert.True(t, c.closed)
}
