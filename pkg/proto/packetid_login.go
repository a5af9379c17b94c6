package proto

// Login and Status packet ids are stable across every protocol version
// this module speaks, unlike Play; a flat table (no version ranges) is
// enough.

const (
	LoginDisconnect        PacketName = "LOGIN_DISCONNECT"
	LoginEncryptionRequest PacketName = "LOGIN_ENCRYPTION_REQUEST"
	LoginSuccess           PacketName = "LOGIN_SUCCESS"
	LoginSetCompression    PacketName = "LOGIN_SET_COMPRESSION"
	LoginStart             PacketName = "LOGIN_START"
	LoginEncryptionResponse PacketName = "LOGIN_ENCRYPTION_RESPONSE"

	StatusRequest  PacketName = "STATUS_REQUEST"
	StatusResponse PacketName = "STATUS_RESPONSE"
	StatusPing     PacketName = "STATUS_PING"
	StatusPong     PacketName = "STATUS_PONG"

	HandshakeIntention PacketName = "HANDSHAKE"
)

// Login is the packet-id map for the LOGIN state (§4.3, §4.4).
var Login = &PacketIDMap{
	clientBound: idTable{
		LoginDisconnect:        {{ID: 0x00, From: 0}},
		LoginEncryptionRequest: {{ID: 0x01, From: 0}},
		LoginSuccess:           {{ID: 0x02, From: 0}},
		LoginSetCompression:    {{ID: 0x03, From: 0}},
	},
	serverBound: idTable{
		LoginStart:              {{ID: 0x00, From: 0}},
		LoginEncryptionResponse: {{ID: 0x01, From: 0}},
	},
}

// Status is the packet-id map for the STATUS state (§4.3).
var Status = &PacketIDMap{
	clientBound: idTable{
		StatusResponse: {{ID: 0x00, From: 0}},
		StatusPong:     {{ID: 0x01, From: 0}},
	},
	serverBound: idTable{
		StatusRequest: {{ID: 0x00, From: 0}},
		StatusPing:    {{ID: 0x01, From: 0}},
	},
}

// Handshake is the packet-id map for the HANDSHAKE state: a single
// packet, id 0x00, that carries the next-state field.
var Handshake = &PacketIDMap{
	serverBound: idTable{
		HandshakeIntention: {{ID: 0x00, From: 0}},
	},
}
