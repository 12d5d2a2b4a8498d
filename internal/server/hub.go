package server

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"skat-game/internal/game"
	"skat-game/internal/protocol"
	"skat-game/internal/shared"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const (
	tableCodeLength = 5 // Length of the unique table code
	seatsPerTable   = 3
)

// Hub manages active WebSocket connections, lobbies, and tables.
type Hub struct {
	clients        map[*Client]bool
	lobbies        map[string][]*Client   // Map table code to list of clients in the lobby
	tables         map[string]*game.Table // Map table code to table instance
	clientToTable  map[*Client]string     // Map client to table code (lobby or active table)
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	lobbyMu        sync.RWMutex
	tableMu        sync.RWMutex
	rng            *rand.Rand
	recorder       game.Recorder
}

// NewHub creates a new Hub instance. Finished deals go to recorder, which may be nil.
func NewHub(recorder game.Recorder) *Hub {
	seed := uint64(time.Now().UnixNano())
	return &Hub{
		clients:        make(map[*Client]bool),
		lobbies:        make(map[string][]*Client),
		tables:         make(map[string]*game.Table),
		clientToTable:  make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(rand.NewPCG(seed, seed>>1)),
		recorder:       recorder,
	}
}

// generateTableCode creates a unique alphanumeric table code.
func (h *Hub) generateTableCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < tableCodeLength; i++ {
			sb.WriteByte(letters[h.rng.IntN(len(letters))])
		}
		code := sb.String()

		h.lobbyMu.RLock()
		_, lobbyExists := h.lobbies[code]
		h.lobbyMu.RUnlock()

		h.tableMu.RLock()
		_, tableExists := h.tables[code]
		h.tableMu.RUnlock()

		if !lobbyExists && !tableExists {
			return code
		}
		log.Printf("Generated table code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.removeClient(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// removeClient forgets a disconnected client and tells its lobby or table.
func (h *Hub) removeClient(client *Client) {
	h.clientMu.Lock()
	tableCode, inTableOrLobby := h.clientToTable[client]
	_, clientExists := h.clients[client]
	if clientExists {
		delete(h.clients, client)
		delete(h.clientToTable, client)
		close(client.send)
		log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
	}
	h.clientMu.Unlock()

	if !inTableOrLobby {
		return
	}

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[tableCode]
	if lobbyExists {
		newLobby := []*Client{}
		for _, c := range lobby {
			if c != client {
				newLobby = append(newLobby, c)
			}
		}
		if len(newLobby) > 0 {
			h.lobbies[tableCode] = newLobby
			h.lobbyMu.Unlock()
			log.Printf("Client %s removed from lobby %s.", client.ID, tableCode)
			h.broadcastLobbyUpdate(tableCode, newLobby)
		} else {
			delete(h.lobbies, tableCode)
			h.lobbyMu.Unlock()
			log.Printf("Client %s left lobby %s. Lobby deleted.", client.ID, tableCode)
		}
		return
	}
	h.lobbyMu.Unlock()

	h.tableMu.RLock()
	table, tableExists := h.tables[tableCode]
	h.tableMu.RUnlock()
	if !tableExists {
		log.Printf("Client %s disconnected but was mapped to non-existent table/lobby code %s", client.ID, tableCode)
		return
	}

	log.Printf("Client %s was at table %s. Notifying table.", client.ID, tableCode)
	go func() {
		table.HandlePlayerDisconnect(client.ID)
		h.tableMu.Lock()
		delete(h.tables, tableCode)
		h.tableMu.Unlock()
		h.clientMu.Lock()
		for c, code := range h.clientToTable {
			if code == tableCode {
				delete(h.clientToTable, c)
			}
		}
		h.clientMu.Unlock()
		log.Printf("Table %s (%s) closed.", tableCode, table.ID)
	}()
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeCreateTable:
		h.handleCreateTable(client, msg)
	case protocol.TypeJoinTable:
		h.handleJoinTable(client, msg)
	case protocol.TypeNextDeal, protocol.TypeShowSkat:
		h.handleTableAction(client, msg)
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendMessageToClient(client.ID, pongMsg)
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateTable handles a request to open a new lobby.
func (h *Hub) handleCreateTable(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadySeated := h.clientToTable[client]
	h.clientMu.RUnlock()
	if alreadySeated {
		log.Printf("Client %s tried to create a table but is already associated with one.", client.ID)
		h.sendErrorToClient(client, "Already at a table or lobby.")
		return
	}

	var payload protocol.CreateTablePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_table payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_table message format.")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		log.Printf("Client %s tried to create a table with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	tableCode := h.generateTableCode()

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToTable[client] = tableCode
	h.clientMu.Unlock()

	h.lobbyMu.Lock()
	h.lobbies[tableCode] = []*Client{client}
	h.lobbyMu.Unlock()

	log.Printf("Client %s (%s) created lobby %s", client.ID, client.Name, tableCode)

	createdMsg, _ := protocol.NewMessage(protocol.TypeTableCreated, protocol.TableCreatedPayload{TableCode: tableCode})
	h.sendMessageToClient(client.ID, createdMsg)

	h.broadcastLobbyUpdate(tableCode, []*Client{client})
}

// handleJoinTable handles a request to join an existing lobby.
func (h *Hub) handleJoinTable(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadySeated := h.clientToTable[client]
	h.clientMu.RUnlock()
	if alreadySeated {
		log.Printf("Client %s tried to join a table but is already associated with one.", client.ID)
		h.sendJoinError(client, "Already at a table or lobby.")
		return
	}

	var payload protocol.JoinTablePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_table payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_table message format.")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		log.Printf("Client %s tried to join with an empty name.", client.ID)
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.TableCode == "" {
		log.Printf("Client %s tried to join without a table code.", client.ID)
		h.sendJoinError(client, "Table code cannot be empty.")
		return
	}
	tableCode := strings.ToUpper(payload.TableCode)

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[tableCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join non-existent lobby %s", client.ID, tableCode)
		h.sendJoinError(client, "Table code not found.")
		return
	}
	if len(lobby) >= seatsPerTable {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join full lobby %s", client.ID, tableCode)
		h.sendJoinError(client, "Table is full.")
		return
	}
	for _, existing := range lobby {
		if existing.Name == payload.Name {
			h.lobbyMu.Unlock()
			log.Printf("Client %s tried to join lobby %s with duplicate name '%s'", client.ID, tableCode, payload.Name)
			h.sendJoinError(client, "Name already taken at this table.")
			return
		}
	}

	client.Name = payload.Name
	newLobby := append(lobby, client)
	full := len(newLobby) == seatsPerTable
	if full {
		delete(h.lobbies, tableCode)
	} else {
		h.lobbies[tableCode] = newLobby
	}
	h.lobbyMu.Unlock()

	h.clientMu.Lock()
	h.clientToTable[client] = tableCode
	h.clientMu.Unlock()

	log.Printf("Client %s (%s) joined lobby %s. Lobby size: %d", client.ID, client.Name, tableCode, len(newLobby))
	h.broadcastLobbyUpdate(tableCode, newLobby)

	if full {
		h.startTable(tableCode, newLobby)
	}
}

// startTable seats a full lobby and starts dealing.
func (h *Hub) startTable(tableCode string, lobby []*Client) {
	var players [seatsPerTable]*shared.Player
	for i, c := range lobby {
		players[i] = shared.NewPlayer(c.ID, c.Name)
	}
	rng := rand.New(rand.NewPCG(h.rng.Uint64(), h.rng.Uint64()))
	table := game.NewTable(players, rng, h.recorder)

	h.tableMu.Lock()
	h.tables[tableCode] = table
	h.tableMu.Unlock()

	log.Printf("Table created for code %s with ID %s. Players: %v", tableCode, table.ID, playerNames(lobby))

	// This function sends game_start, deal_hand and bidding_result.
	go table.StartGameLoop(h.sendMessageToClient)
}

// handleTableAction forwards next_deal and show_skat to the client's table.
func (h *Hub) handleTableAction(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	tableCode, seated := h.clientToTable[client]
	h.clientMu.RUnlock()

	if !seated {
		log.Printf("Received '%s' from client %s not at any table/lobby.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not at an active table or lobby.")
		return
	}

	h.tableMu.RLock()
	table, tableExists := h.tables[tableCode]
	h.tableMu.RUnlock()

	if !tableExists {
		log.Printf("Received '%s' from client %s for table code %s, but no table is running.", msg.Type, client.ID, tableCode)
		h.sendErrorToClient(client, "Table not found or not active.")
		return
	}

	log.Printf("Forwarding '%s' from client %s to table %s (ID: %s)", msg.Type, client.ID, tableCode, table.ID)
	table.HandlePlayerAction(client.ID, msg)
}

// Helper to get player names for logging
func playerNames(players []*Client) []string {
	names := make([]string, len(players))
	for i, p := range players {
		if p != nil {
			names[i] = p.Name
		} else {
			names[i] = "<nil>"
		}
	}
	return names
}

// sendMessageToClient allows the table to send messages back via the hub/client.
// This is passed as a callback to the table.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()

	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	if targetClient == nil {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
		return
	}
	h.trySend(targetClient, message)
}

// trySend never blocks; a client whose buffer is full is dropped.
// Assumes clientMu is held for reading.
func (h *Hub) trySend(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full), initiating cleanup.", client.ID)
		go func() { h.unregister <- client }()
	}
}

// broadcastLobbyUpdate sends the current list of players to everyone in a lobby.
func (h *Hub) broadcastLobbyUpdate(tableCode string, lobby []*Client) {
	playerInfos := make([]protocol.PlayerInfo, len(lobby))
	for i, c := range lobby {
		playerInfos[i] = protocol.PlayerInfo{ID: c.ID, Name: c.Name, Position: i}
	}
	msgBytes, err := protocol.NewMessage(protocol.TypeLobbyUpdate, protocol.LobbyUpdatePayload{Players: playerInfos})
	if err != nil {
		log.Printf("Error creating lobby_update message for lobby %s: %v", tableCode, err)
		return
	}
	for _, c := range lobby {
		h.sendMessageToClient(c.ID, msgBytes)
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeJoinError, protocol.JoinErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
