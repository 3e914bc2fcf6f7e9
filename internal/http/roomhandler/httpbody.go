package roomhandler

import "chatrelaygo/internal/services/chatroom"

type NewChatroomBody struct {
	Title string `json:"title" example:"movie night"`
} // @name NewChatroomRequest

type NewChatroomResponse struct {
	Chatroom *chatroom.Room `json:"chatroom"`
} // @name NewChatroomResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
