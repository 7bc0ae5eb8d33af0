package generator

// Option 是下拉/按钮组里的一个选项。
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CustomWordCount 是字数预设里的 "custom" 哨兵值，选中时读取 customWordCount 字段。
const CustomWordCount = "custom"

var contentTypeOptions = []Option{
	{Value: "kids-story", Label: "Kids Story"},
	{Value: "blog-post", Label: "Blog Post"},
	{Value: "instagram-caption", Label: "Instagram Caption"},
	{Value: "product-description", Label: "Product Description"},
	{Value: "email", Label: "Email"},
	{Value: "social-media", Label: "Social Media Post"},
}

var ageGroupOptions = []Option{
	{Value: "3-5", Label: "3-5 years"},
	{Value: "6-8", Label: "6-8 years"},
	{Value: "9-12", Label: "9-12 years"},
}

var blogToneOptions = []Option{
	{Value: "informative", Label: "Informative"},
	{Value: "casual", Label: "Casual"},
	{Value: "professional", Label: "Professional"},
	{Value: "entertaining", Label: "Entertaining"},
}

var captionStyleOptions = []Option{
	{Value: "engaging", Label: "Engaging"},
	{Value: "funny", Label: "Funny"},
	{Value: "inspirational", Label: "Inspirational"},
	{Value: "promotional", Label: "Promotional"},
}

var blogWordCountOptions = []Option{
	{Value: "500", Label: "500 words"},
	{Value: "800", Label: "800 words"},
	{Value: "1000", Label: "1000 words"},
	{Value: "1500", Label: "1500 words"},
	{Value: CustomWordCount, Label: "Custom"},
}

var storyWordCountOptions = []Option{
	{Value: "300", Label: "300 words"},
	{Value: "500", Label: "500 words"},
	{Value: "700", Label: "700 words"},
	{Value: "1000", Label: "1000 words"},
	{Value: CustomWordCount, Label: "Custom"},
}

// Catalog 汇总所有工具的选项，供前端渲染表单。
type Catalog struct {
	Tools          []ToolKind `json:"tools"`
	ContentTypes   []Option   `json:"content_types"`
	AgeGroups      []Option   `json:"age_groups"`
	BlogTones      []Option   `json:"blog_tones"`
	CaptionStyles  []Option   `json:"caption_styles"`
	BlogWordCounts []Option   `json:"blog_word_counts"`
	StoryWordCount []Option   `json:"story_word_counts"`
}

// Options returns a copy of the option catalog.
func Options() Catalog {
	return Catalog{
		Tools:          Tools(),
		ContentTypes:   append([]Option(nil), contentTypeOptions...),
		AgeGroups:      append([]Option(nil), ageGroupOptions...),
		BlogTones:      append([]Option(nil), blogToneOptions...),
		CaptionStyles:  append([]Option(nil), captionStyleOptions...),
		BlogWordCounts: append([]Option(nil), blogWordCountOptions...),
		StoryWordCount: append([]Option(nil), storyWordCountOptions...),
	}
}

// contentTypeLabel 找不到时回退为原值。
func contentTypeLabel(value string) string {
	for _, o := range contentTypeOptions {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// 与原表单初始状态一致的默认值。
var fieldDefaults = map[ToolKind]map[string]string{
	ToolContent: {
		FieldContentType: "blog-post",
	},
	ToolKidsStory: {
		FieldAgeGroup:  "6-8",
		FieldWordCount: "500",
	},
	ToolBlogPost: {
		FieldTone:      "informative",
		FieldWordCount: "800",
	},
	ToolInstagramCaption: {
		FieldStyle: "engaging",
	},
}

func fieldDefault(tool ToolKind, name string) string {
	return fieldDefaults[tool][name]
}
