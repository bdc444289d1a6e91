package remote

type EmptyResponse struct {
}

type UpdateFrameRequest struct {
	Width  int
	Height int
	Black  []byte
	Red    []byte
}
