package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
)

func TestJSStringEscapes(t *testing.T) {
	assert.Equal(t, `"//div[@class='tx-scroll']"`, jsString(`//div[@class='tx-scroll']`))
	assert.Equal(t, `"say \"hi\"\n"`, jsString("say \"hi\"\n"))
}

func TestNodeExpr(t *testing.T) {
	expr := nodeExpr("//div")
	assert.Contains(t, expr, `document.evaluate("//div"`)
	assert.Contains(t, expr, "FIRST_ORDERED_NODE_TYPE")
}

// flakyHost resolves the container only after a number of attempts.
type flakyHost struct {
	host.Fake
	failures int
}

func (f *flakyHost) ResolveContainer(ctx context.Context) (host.Container, error) {
	if f.failures > 0 {
		f.failures--
		return nil, host.ErrContainerNotFound
	}
	return f.Fake.ResolveContainer(ctx)
}

func TestWaitForContainerEventuallyFound(t *testing.T) {
	h := &flakyHost{failures: 3}
	err := WaitForContainer(context.Background(), h, time.Millisecond, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 0, h.failures)
}

func TestWaitForContainerTimeout(t *testing.T) {
	h := &host.Fake{Missing: true}
	err := WaitForContainer(context.Background(), h, time.Millisecond, 20*time.Millisecond)
	assert.ErrorIs(t, err, host.ErrContainerNotFound)
}

func TestWaitForContainerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForContainer(ctx, &host.Fake{Missing: true}, time.Millisecond, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
