package generator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_KidsStoryContainsFields(t *testing.T) {
	req := NewRequest(ToolKidsStory, map[string]string{
		FieldTopic:     "A brave little rabbit",
		FieldAgeGroup:  "6-8",
		FieldWordCount: "500",
	})

	p, err := BuildPrompt(req)
	require.NoError(t, err)
	t.Logf("\n--- kids story prompt ---\n%s", p.User)

	assert.Contains(t, p.User, "A brave little rabbit")
	assert.Contains(t, p.User, "ages 6-8")
	assert.Contains(t, p.User, "approximately 500 words")
	assert.Contains(t, p.User, "for 6-8 year olds")
	assert.Empty(t, p.System)
}

func TestBuildPrompt_KidsStoryWordCount(t *testing.T) {
	cases := []struct {
		name    string
		preset  string
		custom  string
		wantErr bool
	}{
		{name: "custom below minimum", preset: CustomWordCount, custom: "50", wantErr: true},
		{name: "custom at minimum", preset: CustomWordCount, custom: "100"},
		{name: "custom empty", preset: CustomWordCount, custom: "", wantErr: true},
		{name: "custom not a number", preset: CustomWordCount, custom: "lots", wantErr: true},
		{name: "preset", preset: "300"},
		{name: "raw preset below minimum", preset: "50", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := NewRequest(ToolKidsStory, map[string]string{
				FieldTopic:           "dragons",
				FieldWordCount:       tc.preset,
				FieldCustomWordCount: tc.custom,
			})
			_, err := BuildPrompt(req)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, FieldWordCount, verr.Field)
			assert.Equal(t, "Please enter a valid word count (minimum 100 words)", verr.Error())
		})
	}
}

func TestBuildPrompt_BlogPostWordCount(t *testing.T) {
	build := func(words string) error {
		_, err := BuildPrompt(NewRequest(ToolBlogPost, map[string]string{
			FieldTopic:           "Benefits of Morning Exercise",
			FieldWordCount:       CustomWordCount,
			FieldCustomWordCount: words,
		}))
		return err
	}

	err := build("150")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum 200 words")
	require.NoError(t, build("200"))
}

func TestBuildPrompt_BlogPostDefaults(t *testing.T) {
	p, err := BuildPrompt(NewRequest(ToolBlogPost, map[string]string{FieldTopic: "Sleep"}))
	require.NoError(t, err)
	assert.Contains(t, p.User, "approximately 800 words")
	assert.Contains(t, p.User, "Tone: informative")
	assert.Contains(t, p.User, "Use informative tone throughout.")
}

func TestBuildPrompt_RequiredFields(t *testing.T) {
	cases := []struct {
		tool  ToolKind
		field string
	}{
		{ToolContent, FieldDetails},
		{ToolKidsStory, FieldTopic},
		{ToolBlogPost, FieldTopic},
		{ToolInstagramCaption, FieldDescription},
	}
	for _, tc := range cases {
		t.Run(string(tc.tool), func(t *testing.T) {
			_, err := BuildPrompt(NewRequest(tc.tool, map[string]string{tc.field: "   "}))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestBuildPrompt_ContentUsesLabel(t *testing.T) {
	p, err := BuildPrompt(NewRequest(ToolContent, map[string]string{
		FieldContentType: "social-media",
		FieldDetails:     "launch of our <b>new</b> app",
	}))
	require.NoError(t, err)
	assert.Contains(t, p.User, "Write high-quality Social Media Post content")
	// 字段值原样代入，不做转义。
	assert.Contains(t, p.User, "launch of our <b>new</b> app")

	p, err = BuildPrompt(NewRequest(ToolContent, map[string]string{
		FieldContentType: "press-release",
		FieldDetails:     "x",
	}))
	require.NoError(t, err)
	assert.Contains(t, p.User, "Write high-quality press-release content")
}

func TestBuildPrompt_Caption(t *testing.T) {
	p, err := BuildPrompt(NewRequest(ToolInstagramCaption, map[string]string{
		FieldDescription: "Sunset at the beach",
		FieldStyle:       "funny",
	}))
	require.NoError(t, err)
	assert.Contains(t, p.User, `Write an funny Instagram caption for: "Sunset at the beach"`)
	assert.Contains(t, p.User, "Make it funny, authentic, and shareable.")
}

func TestBuildPrompt_UnknownTool(t *testing.T) {
	_, err := BuildPrompt(NewRequest("poem", nil))
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestResolveWordCount(t *testing.T) {
	n, raw, ok := ResolveWordCount("800", "123")
	assert.True(t, ok)
	assert.Equal(t, 800, n)
	assert.Equal(t, "800", raw)

	n, _, ok = ResolveWordCount(CustomWordCount, "450 words")
	assert.True(t, ok)
	assert.Equal(t, 450, n)

	_, _, ok = ResolveWordCount(CustomWordCount, "")
	assert.False(t, ok)

	n, raw, ok = ResolveWordCount(CustomWordCount, "99999999999999999999")
	assert.True(t, ok)
	assert.Equal(t, math.MaxInt, n)
	assert.Equal(t, "99999999999999999999", raw)
}

func TestBuildPrompt_HugeWordCountAccepted(t *testing.T) {
	p, err := BuildPrompt(NewRequest(ToolBlogPost, map[string]string{
		FieldTopic:           "Space travel",
		FieldWordCount:       CustomWordCount,
		FieldCustomWordCount: "99999999999999999999",
	}))
	require.NoError(t, err)
	assert.Contains(t, p.User, "approximately 99999999999999999999 words")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(NewRequest(ToolInstagramCaption, map[string]string{FieldDescription: "beach"})))
	var verr *ValidationError
	assert.ErrorAs(t, Validate(NewRequest(ToolContent, nil)), &verr)
}

func TestNewRequestCopiesFields(t *testing.T) {
	fields := map[string]string{FieldTopic: "cats"}
	req := NewRequest(ToolBlogPost, fields)
	fields[FieldTopic] = "dogs"
	assert.Equal(t, "cats", req.Field(FieldTopic))
}
