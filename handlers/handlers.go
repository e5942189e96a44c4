package handlers

type Response struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var (
	// Predefined responses. Store errors never reach the client
	MissingFieldsResponse = Response{"Title and content are required"}
	NotFoundResponse      = Response{"Post not found"}
	ListFailedResponse    = Response{"Failed to fetch posts"}
	CreateFailedResponse  = Response{"Failed to create post"}
	UpdateFailedResponse  = Response{"Failed to update post"}
	DeleteFailedResponse  = Response{"Failed to delete post"}
	DeletedResponse       = MessageResponse{"Post deleted"}
)
