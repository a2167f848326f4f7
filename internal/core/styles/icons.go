package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconFileMarkdown = "\ue73e " // nf-dev-markdown
	IconFileDefault  = "\uf15b " // nf-fa-file
	IconLock         = "\uf023"  // nf-fa-lock
	IconError        = "\uf057"  // nf-fa-times_circle
)
