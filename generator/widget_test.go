package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidget_OneGenerationInFlight(t *testing.T) {
	llm := &fakeLLM{out: "Title\n\nbody", block: make(chan struct{}), started: make(chan struct{}, 1)}
	wd, err := NewWidget(ToolBlogPost, newTestWriter(t, llm))
	require.NoError(t, err)
	require.NotEmpty(t, wd.ID)

	done := make(chan Result)
	go func() {
		res, err := wd.Submit(context.Background(), map[string]string{FieldTopic: "first"}, nil)
		assert.NoError(t, err)
		done <- res
	}()

	<-llm.started
	assert.True(t, wd.Loading())

	_, err = wd.Submit(context.Background(), map[string]string{FieldTopic: "second"}, nil)
	assert.True(t, errors.Is(err, ErrBusy))

	close(llm.block)
	res := <-done
	assert.Equal(t, "Title", res.Title)
	assert.False(t, wd.Loading())
	assert.Equal(t, 1, llm.Calls())
	assert.Len(t, wd.History(), 1)
}

func TestWidget_ErrorKeepsPreviousOutput(t *testing.T) {
	llm := &fakeLLM{out: "Title\n\nbody"}
	wd, err := NewWidget(ToolInstagramCaption, newTestWriter(t, llm))
	require.NoError(t, err)

	_, err = wd.Submit(context.Background(), map[string]string{FieldDescription: "beach"}, nil)
	require.NoError(t, err)

	llm.err = errors.New("upstream down")
	res, err := wd.Submit(context.Background(), map[string]string{FieldDescription: "beach"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "upstream down", res.Error)

	shown := wd.Result()
	assert.Equal(t, "upstream down", shown.Error)
	assert.Equal(t, "Title\n\nbody", shown.Output)
	assert.Len(t, wd.History(), 2)
}

func TestNewWidgetUnknownTool(t *testing.T) {
	_, err := NewWidget("poem", newTestWriter(t, MockLLM{}))
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestWidget_OnAcceptedOnlyForValidSubmissions(t *testing.T) {
	llm := &fakeLLM{out: "Title\n\nbody"}
	wd, err := NewWidget(ToolContent, newTestWriter(t, llm))
	require.NoError(t, err)

	accepted := 0
	onAccepted := func() { accepted++ }

	res, err := wd.Submit(context.Background(), map[string]string{FieldDetails: ""}, onAccepted)
	require.NoError(t, err)
	assert.False(t, res.Called)
	assert.Equal(t, 0, accepted)

	_, err = wd.Submit(context.Background(), map[string]string{FieldDetails: "spring sale"}, onAccepted)
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, llm.Calls())
}

func TestWidget_BusySubmitSkipsOnAccepted(t *testing.T) {
	llm := &fakeLLM{out: "Title\n\nbody", block: make(chan struct{}), started: make(chan struct{}, 1)}
	wd, err := NewWidget(ToolBlogPost, newTestWriter(t, llm))
	require.NoError(t, err)

	accepted := make(chan struct{}, 2)
	onAccepted := func() { accepted <- struct{}{} }

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := wd.Submit(context.Background(), map[string]string{FieldTopic: "first"}, onAccepted)
		assert.NoError(t, err)
	}()
	<-llm.started

	_, err = wd.Submit(context.Background(), map[string]string{FieldTopic: "second"}, onAccepted)
	assert.ErrorIs(t, err, ErrBusy)

	close(llm.block)
	<-done
	assert.Len(t, accepted, 1)
}
