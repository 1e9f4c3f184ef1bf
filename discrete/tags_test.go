package discrete

type DDimX struct{}

func (DDimX) TagName() string { return "X" }

type DDimY struct{}

func (DDimY) TagName() string { return "Y" }

type DDimZ struct{}

func (DDimZ) TagName() string { return "Z" }

var (
	tagX = TagOf[DDimX]()
	tagY = TagOf[DDimY]()
	tagZ = TagOf[DDimZ]()
	tagsXY = NewTags(tagX, tagY)
	tagsYX = NewTags(tagY, tagX)
)
