package profile

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchFallback_MapsPersonBlock(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{page: reply(http.StatusOK, personPage)}
	svc := NewService(fetcher, testConfig(), zap.NewNop())

	got, err := svc.FetchFallback(context.Background(), "NASA_input")

	require.NoError(t, err)
	require.Equal(t, Result{
		Username:      "nasa",
		FullName:      "NASA",
		Biography:     "Explore the universe",
		ProfilePicURL: "https://cdn.test/nasa.jpg",
		ExternalURL:   "https://nasa.gov",
	}, got)

	req := fetcher.request(0)
	require.Equal(t, "https://upstream.test/NASA_input/", req.URL)
	require.Equal(t, "test-agent", req.Headers.Get("User-Agent"))
	require.Equal(t, pageAccept, req.Headers.Get("Accept"))
}

func TestFetchFallback_DefaultsWhenFieldsMissing(t *testing.T) {
	t.Parallel()

	page := `<html><script type="application/ld+json">{"@type":"Person"}</script></html>`
	svc := NewService(&fakeFetcher{page: reply(http.StatusOK, page)}, testConfig(), zap.NewNop())

	got, err := svc.FetchFallback(context.Background(), "someone")

	require.NoError(t, err)
	require.Equal(t, Result{Username: "someone", FullName: DefaultFullName}, got)
}

func TestFetchFallback_SkipsNonObjectBlocks(t *testing.T) {
	t.Parallel()

	page := `<html><head>
<script type="application/ld+json">[{"@type":"WebSite"}]</script>
<script type="application/ld+json">{"@type":"Person","name":"Second"}</script>
</head></html>`
	svc := NewService(&fakeFetcher{page: reply(http.StatusOK, page)}, testConfig(), zap.NewNop())

	got, err := svc.FetchFallback(context.Background(), "someone")

	require.NoError(t, err)
	require.Equal(t, "Second", got.FullName)
}

func TestFetchFallback_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page fakeReply
		want string
	}{
		{
			name: "non OK status",
			page: reply(http.StatusTooManyRequests, ``),
			want: "HTTP Error: 429",
		},
		{
			name: "no JSON-LD block",
			page: reply(http.StatusOK, `<html><body>nothing here</body></html>`),
			want: ParseFailureReason,
		},
		{
			name: "wrong type",
			page: reply(http.StatusOK, `<script type="application/ld+json">{"@type":"Organization"}</script>`),
			want: ParseFailureReason,
		},
		{
			name: "invalid JSON",
			page: reply(http.StatusOK, `<script type="application/ld+json">{"@type":"Person",</script>`),
			want: ParseFailureReason,
		},
		{
			name: "first object block is not a person",
			page: reply(http.StatusOK, `<script type="application/ld+json">{"@type":"WebSite"}</script>`+
				`<script type="application/ld+json">{"@type":"Person"}</script>`),
			want: ParseFailureReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService(&fakeFetcher{page: tt.page}, testConfig(), zap.NewNop())

			_, err := svc.FetchFallback(context.Background(), "someone")

			var failure *FailureError
			require.ErrorAs(t, err, &failure)
			require.Equal(t, tt.want, failure.Reason)
		})
	}
}

func TestFetchFallback_TransportError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pageErr: context.DeadlineExceeded}
	svc := NewService(fetcher, testConfig(), zap.NewNop())

	_, err := svc.FetchFallback(context.Background(), "someone")

	require.EqualError(t, err, context.DeadlineExceeded.Error())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
