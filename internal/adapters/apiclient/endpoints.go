package apiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/voidfleet/controller/internal/domain/agent"
	"github.com/voidfleet/controller/internal/domain/contract"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/domain/survey"
	"github.com/voidfleet/controller/internal/domain/universe"
)

// Status fetches the unauthenticated root status document and returns its
// reset identifier (the server's `resetDate`), so the Scheduler Root can
// namespace persistence to the current game reset (§4.N, §6).
func (c *Client) Status(ctx context.Context) (resetIdentifier string, err error) {
	var out struct {
		ResetDate string `json:"resetDate"`
	}
	if err := c.do(ctx, "GET", "/", "", nil, &out); err != nil {
		return "", err
	}
	return out.ResetDate, nil
}

// Register creates the agent under faction using the account token —
// registration's "alternate auth header" per §4.A: every other call
// authenticates with the agent token this call returns.
func (c *Client) Register(ctx context.Context, accountToken, faction, symbol string) (agentToken string, a agent.Agent, err error) {
	var out struct {
		Token string `json:"token"`
		Agent struct {
			Symbol          string `json:"symbol"`
			Headquarters    string `json:"headquarters"`
			Credits         int64  `json:"credits"`
			StartingFaction string `json:"startingFaction"`
		} `json:"agent"`
	}
	body := map[string]string{"faction": faction, "symbol": symbol}
	if err := c.do(ctx, "POST", "/register", accountToken, body, &out); err != nil {
		return "", agent.Agent{}, err
	}
	return out.Token, agent.Agent{
		Symbol:          out.Agent.Symbol,
		Headquarters:    out.Agent.Headquarters,
		Credits:         out.Agent.Credits,
		StartingFaction: out.Agent.StartingFaction,
	}, nil
}

// GetAgent fetches the authenticated agent's current snapshot.
func (c *Client) GetAgent(ctx context.Context, token string) (agent.Agent, error) {
	var out struct {
		Symbol          string `json:"symbol"`
		Headquarters    string `json:"headquarters"`
		Credits         int64  `json:"credits"`
		StartingFaction string `json:"startingFaction"`
	}
	if err := c.do(ctx, "GET", "/my/agent", token, nil, &out); err != nil {
		return agent.Agent{}, err
	}
	return agent.Agent{
		Symbol:          out.Symbol,
		Headquarters:    out.Headquarters,
		Credits:         out.Credits,
		StartingFaction: out.StartingFaction,
	}, nil
}

type shipDTO struct {
	Symbol string `json:"symbol"`
	Nav    struct {
		SystemSymbol   string `json:"systemSymbol"`
		WaypointSymbol string `json:"waypointSymbol"`
		Status         string `json:"status"`
		FlightMode     string `json:"flightMode"`
		Route          *struct {
			Origin      struct{ Symbol string } `json:"origin"`
			Destination struct{ Symbol string } `json:"destination"`
			Departure   string                   `json:"departureTime"`
			Arrival     string                   `json:"arrival"`
		} `json:"route"`
	} `json:"nav"`
	Engine struct {
		Symbol    string  `json:"symbol"`
		Speed     int     `json:"speed"`
		Condition float64 `json:"condition"`
	} `json:"engine"`
	Frame struct {
		Symbol    string  `json:"symbol"`
		Condition float64 `json:"condition"`
	} `json:"frame"`
	Reactor struct {
		Symbol    string  `json:"symbol"`
		Condition float64 `json:"condition"`
	} `json:"reactor"`
	Fuel struct {
		Current  int `json:"current"`
		Capacity int `json:"capacity"`
	} `json:"fuel"`
	Cooldown struct {
		RemainingSeconds int    `json:"remainingSeconds"`
		Expiration       string `json:"expiration"`
	} `json:"cooldown"`
	Cargo struct {
		Capacity  int `json:"capacity"`
		Units     int `json:"units"`
		Inventory []struct {
			Symbol string `json:"symbol"`
			Units  int    `json:"units"`
		} `json:"inventory"`
	} `json:"cargo"`
}

func (d shipDTO) toDomain() (fleet.Ship, error) {
	var route *fleet.Route
	if d.Nav.Route != nil {
		arrival, err := parseArrival(d.Nav.Route.Arrival)
		if err != nil {
			return fleet.Ship{}, err
		}
		departure, _ := parseArrival(d.Nav.Route.Departure)
		route = &fleet.Route{
			OriginSymbol:      d.Nav.Route.Origin.Symbol,
			DestinationSymbol: d.Nav.Route.Destination.Symbol,
			DepartureTime:     departure,
			Arrival:           arrival,
		}
	}

	var cooldownExpiration *time.Time
	if d.Cooldown.Expiration != "" {
		if t, err := parseArrival(d.Cooldown.Expiration); err == nil {
			cooldownExpiration = &t
		}
	}

	inventory := make(map[string]int, len(d.Cargo.Inventory))
	for _, item := range d.Cargo.Inventory {
		inventory[item.Symbol] = item.Units
	}

	return fleet.Ship{
		Symbol: d.Symbol,
		Nav: fleet.Nav{
			SystemSymbol:   d.Nav.SystemSymbol,
			WaypointSymbol: d.Nav.WaypointSymbol,
			Route:          route,
			Status:         fleet.NavStatus(d.Nav.Status),
			FlightMode:     shared.ParseFlightMode(d.Nav.FlightMode),
		},
		Engine:  fleet.Engine{Symbol: d.Engine.Symbol, Speed: d.Engine.Speed, Condition: d.Engine.Condition},
		Frame:   fleet.Frame{Symbol: d.Frame.Symbol, Condition: d.Frame.Condition},
		Reactor: fleet.Reactor{Symbol: d.Reactor.Symbol, Condition: d.Reactor.Condition},
		Fuel:    fleet.Fuel{Current: d.Fuel.Current, Capacity: d.Fuel.Capacity},
		Cooldown: fleet.Cooldown{
			RemainingSeconds: d.Cooldown.RemainingSeconds,
			Expiration:       cooldownExpiration,
		},
		Cargo: fleet.Cargo{Capacity: d.Cargo.Capacity, Units: d.Cargo.Units, Inventory: inventory},
	}, nil
}

func parseArrival(raw string) (time.Time, error) {
	at, err := shared.NewArrivalTime(raw)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("apiclient: parse timestamp %q: %w", at.Timestamp(), err)
	}
	return t, nil
}

// GetShip fetches one ship's full current state.
func (c *Client) GetShip(ctx context.Context, token, symbol string) (fleet.Ship, error) {
	var out shipDTO
	if err := c.do(ctx, "GET", "/my/ships/"+symbol, token, nil, &out); err != nil {
		return fleet.Ship{}, err
	}
	return out.toDomain()
}

// ListShips fetches every ship on the account, paginated at 20/page.
func (c *Client) ListShips(ctx context.Context, token string) ([]fleet.Ship, error) {
	dtos, err := fetchPaged(ctx, func(ctx context.Context, page, limit int) ([]shipDTO, error) {
		var out []shipDTO
		path := fmt.Sprintf("/my/ships?page=%d&limit=%d", page, limit)
		if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	ships := make([]fleet.Ship, 0, len(dtos))
	for _, d := range dtos {
		s, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		ships = append(ships, s)
	}
	return ships, nil
}

// BuyShip purchases shipType at the shipyard at waypoint, returning the
// new ship's symbol.
func (c *Client) BuyShip(ctx context.Context, token, shipType, waypoint string) (string, error) {
	var out struct {
		Ship shipDTO `json:"ship"`
	}
	body := map[string]string{"shipType": shipType, "waypointSymbol": waypoint}
	if err := c.do(ctx, "POST", "/my/ships", token, body, &out); err != nil {
		return "", err
	}
	return out.Ship.Symbol, nil
}

// Orbit, Dock are fire-and-forget nav transitions.
func (c *Client) Orbit(ctx context.Context, token, symbol string) error {
	return c.do(ctx, "POST", "/my/ships/"+symbol+"/orbit", token, map[string]any{}, nil)
}

func (c *Client) Dock(ctx context.Context, token, symbol string) error {
	return c.do(ctx, "POST", "/my/ships/"+symbol+"/dock", token, map[string]any{}, nil)
}

// Navigate sends symbol toward dest and returns the parsed arrival time.
func (c *Client) Navigate(ctx context.Context, token, symbol, dest string) (time.Time, error) {
	var out struct {
		Nav struct {
			Route struct {
				Arrival string `json:"arrival"`
			} `json:"route"`
		} `json:"nav"`
	}
	body := map[string]string{"waypointSymbol": dest}
	if err := c.do(ctx, "POST", "/my/ships/"+symbol+"/navigate", token, body, &out); err != nil {
		return time.Time{}, err
	}
	return parseArrival(out.Nav.Route.Arrival)
}

// SetFlightMode changes a docked or orbiting ship's flight mode.
func (c *Client) SetFlightMode(ctx context.Context, token, symbol string, mode shared.FlightMode) error {
	body := map[string]string{"flightMode": mode.Name()}
	return c.do(ctx, "PATCH", "/my/ships/"+symbol+"/nav", token, body, nil)
}

// Refuel buys units of fuel (0 meaning "top off") at the current market.
func (c *Client) Refuel(ctx context.Context, token, symbol string, units int) error {
	body := map[string]any{}
	if units > 0 {
		body["units"] = units
	}
	return c.do(ctx, "POST", "/my/ships/"+symbol+"/refuel", token, body, nil)
}

// PurchaseCargo, SellCargo, JettisonCargo, TransferCargo mutate a ship's
// hold directly against the market or another ship.
// tradeResponseDTO matches the "cargo"+"transaction" shape the purchase
// and sell endpoints share.
type tradeResponseDTO struct {
	Cargo struct {
		Capacity  int `json:"capacity"`
		Units     int `json:"units"`
		Inventory []struct {
			Symbol string `json:"symbol"`
			Units  int    `json:"units"`
		} `json:"inventory"`
	} `json:"cargo"`
	Transaction struct {
		TradeSymbol   string    `json:"tradeSymbol"`
		Type          string    `json:"type"`
		Units         int       `json:"units"`
		PricePerUnit  int       `json:"pricePerUnit"`
		TotalPrice    int       `json:"totalPrice"`
		WaypointSymbol string   `json:"waypointSymbol"`
		Timestamp     time.Time `json:"timestamp"`
	} `json:"transaction"`
}

func (d tradeResponseDTO) transaction(shipSymbol string) universe.Transaction {
	return universe.Transaction{
		MarketSymbol: d.Transaction.WaypointSymbol,
		ShipSymbol:   shipSymbol,
		Good:         d.Transaction.TradeSymbol,
		Type:         d.Transaction.Type,
		Units:        d.Transaction.Units,
		PricePerUnit: d.Transaction.PricePerUnit,
		TotalPrice:   d.Transaction.TotalPrice,
		Timestamp:    d.Transaction.Timestamp,
	}
}

// PurchaseCargo buys units of good aboard symbol, returning the ship's
// post-purchase cargo hold and the transaction the market recorded.
func (c *Client) PurchaseCargo(ctx context.Context, token, symbol, good string, units int) (fleet.Cargo, universe.Transaction, error) {
	var out tradeResponseDTO
	body := map[string]any{"symbol": good, "units": units}
	if err := c.do(ctx, "POST", "/my/ships/"+symbol+"/purchase", token, body, &out); err != nil {
		return fleet.Cargo{}, universe.Transaction{}, err
	}
	return cargoFromDTO(out.Cargo.Capacity, out.Cargo.Units, out.Cargo.Inventory), out.transaction(symbol), nil
}

// SellCargo sells units of good aboard symbol, returning the ship's
// post-sale cargo hold and the transaction the market recorded.
func (c *Client) SellCargo(ctx context.Context, token, symbol, good string, units int) (fleet.Cargo, universe.Transaction, error) {
	var out tradeResponseDTO
	body := map[string]any{"symbol": good, "units": units}
	if err := c.do(ctx, "POST", "/my/ships/"+symbol+"/sell", token, body, &out); err != nil {
		return fleet.Cargo{}, universe.Transaction{}, err
	}
	return cargoFromDTO(out.Cargo.Capacity, out.Cargo.Units, out.Cargo.Inventory), out.transaction(symbol), nil
}

func (c *Client) JettisonCargo(ctx context.Context, token, symbol, good string, units int) error {
	body := map[string]any{"symbol": good, "units": units}
	return c.do(ctx, "POST", "/my/ships/"+symbol+"/jettison", token, body, nil)
}

func (c *Client) TransferCargo(ctx context.Context, token, fromShip, toShip, good string, units int) (srcCargo, dstCargo fleet.Cargo, err error) {
	var out struct {
		Cargo struct {
			Capacity  int `json:"capacity"`
			Units     int `json:"units"`
			Inventory []struct {
				Symbol string `json:"symbol"`
				Units  int    `json:"units"`
			} `json:"inventory"`
		} `json:"cargo"`
	}
	body := map[string]any{"tradeSymbol": good, "units": units, "shipSymbol": toShip}
	if err := c.do(ctx, "POST", "/my/ships/"+fromShip+"/transfer", token, body, &out); err != nil {
		return fleet.Cargo{}, fleet.Cargo{}, err
	}
	src := cargoFromDTO(out.Cargo.Capacity, out.Cargo.Units, out.Cargo.Inventory)
	dst, err := c.GetCargo(ctx, token, toShip)
	return src, dst, err
}

// GetCargo refetches a single ship's cargo after an RPC that doesn't
// echo the receiving side's state (e.g. transfer only returns src cargo).
func (c *Client) GetCargo(ctx context.Context, token, symbol string) (fleet.Cargo, error) {
	s, err := c.GetShip(ctx, token, symbol)
	if err != nil {
		return fleet.Cargo{}, err
	}
	return s.Cargo, nil
}

func cargoFromDTO(capacity, units int, items []struct {
	Symbol string `json:"symbol"`
	Units  int    `json:"units"`
}) fleet.Cargo {
	inv := make(map[string]int, len(items))
	for _, it := range items {
		inv[it.Symbol] = it.Units
	}
	return fleet.Cargo{Capacity: capacity, Units: units, Inventory: inv}
}

// Survey, Extract, Siphon, Scrap, Jump issue the mining/siphon/explorer
// cooldown RPCs.
// Survey performs the survey RPC, returning every signature it produced.
func (c *Client) Survey(ctx context.Context, token, symbol string) ([]survey.Survey, error) {
	var out struct {
		Surveys []struct {
			Signature      string   `json:"signature"`
			Symbol         string   `json:"symbol"`
			Deposits       []struct{ Symbol string `json:"symbol"` } `json:"deposits"`
			Size           string    `json:"size"`
			Expiration     time.Time `json:"expiration"`
		} `json:"surveys"`
	}
	if err := c.do(ctx, "POST", "/my/ships/"+symbol+"/survey", token, map[string]any{}, &out); err != nil {
		return nil, err
	}
	surveys := make([]survey.Survey, 0, len(out.Surveys))
	for _, s := range out.Surveys {
		deposits := make([]survey.Deposit, 0, len(s.Deposits))
		for _, d := range s.Deposits {
			deposits = append(deposits, survey.Deposit(d.Symbol))
		}
		surveys = append(surveys, survey.Survey{
			Signature:      s.Signature,
			WaypointSymbol: s.Symbol,
			Deposits:       deposits,
			Size:           s.Size,
			Expiration:     s.Expiration,
		})
	}
	return surveys, nil
}

// Extract performs the extraction RPC, returning the yielded good, its
// unit count, and the reactor cooldown it started.
func (c *Client) Extract(ctx context.Context, token, symbol string, sig *survey.Survey) (good string, units int, cd fleet.Cooldown, err error) {
	var out struct {
		Cooldown struct {
			RemainingSeconds int       `json:"remainingSeconds"`
			Expiration       time.Time `json:"expiration"`
		} `json:"cooldown"`
		Extraction struct {
			Yield struct {
				Symbol string `json:"symbol"`
				Units  int    `json:"units"`
			} `json:"yield"`
		} `json:"extraction"`
	}
	body := map[string]any{}
	if sig != nil {
		deposits := make([]string, 0, len(sig.Deposits))
		for _, d := range sig.Deposits {
			deposits = append(deposits, string(d))
		}
		body["survey"] = map[string]any{
			"signature":      sig.Signature,
			"symbol":         sig.WaypointSymbol,
			"deposits":       deposits,
			"size":           sig.Size,
			"expiration":     sig.Expiration,
		}
	}
	if err := c.do(ctx, "POST", "/my/ships/"+symbol+"/extract", token, body, &out); err != nil {
		return "", 0, fleet.Cooldown{}, err
	}
	exp := out.Cooldown.Expiration
	return out.Extraction.Yield.Symbol, out.Extraction.Yield.Units,
		fleet.Cooldown{RemainingSeconds: out.Cooldown.RemainingSeconds, Expiration: &exp}, nil
}

// Siphon performs the siphon RPC, returning the yielded good, its unit
// count, and the reactor cooldown it started.
func (c *Client) Siphon(ctx context.Context, token, symbol string) (good string, units int, cd fleet.Cooldown, err error) {
	var out struct {
		Cooldown struct {
			RemainingSeconds int       `json:"remainingSeconds"`
			Expiration       time.Time `json:"expiration"`
		} `json:"cooldown"`
		Siphon struct {
			Yield struct {
				Symbol string `json:"symbol"`
				Units  int    `json:"units"`
			} `json:"yield"`
		} `json:"siphon"`
	}
	if err := c.do(ctx, "POST", "/my/ships/"+symbol+"/siphon", token, map[string]any{}, &out); err != nil {
		return "", 0, fleet.Cooldown{}, err
	}
	exp := out.Cooldown.Expiration
	return out.Siphon.Yield.Symbol, out.Siphon.Yield.Units,
		fleet.Cooldown{RemainingSeconds: out.Cooldown.RemainingSeconds, Expiration: &exp}, nil
}

func (c *Client) Scrap(ctx context.Context, token, symbol string) error {
	return c.do(ctx, "POST", "/my/ships/"+symbol+"/scrap", token, map[string]any{}, nil)
}

func (c *Client) Jump(ctx context.Context, token, symbol, targetWaypoint string) error {
	body := map[string]string{"waypointSymbol": targetWaypoint}
	return c.do(ctx, "POST", "/my/ships/"+symbol+"/jump", token, body, nil)
}

// GetMarket, GetShipyard, GetConstruction, SupplyConstruction,
// GetJumpGate fetch or mutate waypoint-scoped world state.
func (c *Client) GetMarket(ctx context.Context, token, systemSymbol, waypoint string) (universe.Market, error) {
	var out struct {
		Symbol     string   `json:"symbol"`
		Imports    []struct{ Symbol string } `json:"imports"`
		Exports    []struct{ Symbol string } `json:"exports"`
		Exchange   []struct{ Symbol string } `json:"exchange"`
		TradeGoods []struct {
			Symbol        string  `json:"symbol"`
			Type          string  `json:"type"`
			Supply        string  `json:"supply"`
			Activity      string  `json:"activity"`
			TradeVolume   int     `json:"tradeVolume"`
			PurchasePrice int     `json:"purchasePrice"`
			SellPrice     int     `json:"sellPrice"`
		} `json:"tradeGoods"`
	}
	path := fmt.Sprintf("/systems/%s/waypoints/%s/market", systemSymbol, waypoint)
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return universe.Market{}, err
	}

	toSymbols := func(rows []struct{ Symbol string }) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Symbol
		}
		return out
	}

	goods := make([]universe.TradeGood, len(out.TradeGoods))
	for i, g := range out.TradeGoods {
		var activity *universe.Activity
		if g.Activity != "" {
			a := universe.Activity(g.Activity)
			activity = &a
		}
		goods[i] = universe.TradeGood{
			Symbol:        g.Symbol,
			Type:          universe.TradeGoodType(g.Type),
			Supply:        universe.ParseSupply(g.Supply),
			Activity:      activity,
			TradeVolume:   g.TradeVolume,
			PurchasePrice: g.PurchasePrice,
			SellPrice:     g.SellPrice,
		}
	}

	return universe.Market{
		Symbol:     out.Symbol,
		Imports:    toSymbols(out.Imports),
		Exports:    toSymbols(out.Exports),
		Exchange:   toSymbols(out.Exchange),
		TradeGoods: goods,
		Timestamp:  time.Now().UTC(),
	}, nil
}

func (c *Client) GetShipyard(ctx context.Context, token, systemSymbol, waypoint string) (universe.Shipyard, error) {
	var out struct {
		WaypointSymbol string `json:"symbol"`
		ShipTypes      []struct {
			Type string `json:"type"`
		} `json:"shipTypes"`
		Ships []struct {
			Type          string   `json:"type"`
			PurchasePrice int      `json:"purchasePrice"`
			Frame         struct{ Symbol string } `json:"frame"`
			Reactor       struct{ Symbol string } `json:"reactor"`
			Engine        struct{ Symbol string } `json:"engine"`
			Modules       []struct{ Symbol string } `json:"modules"`
			Mounts        []struct{ Symbol string } `json:"mounts"`
		} `json:"ships"`
	}
	path := fmt.Sprintf("/systems/%s/waypoints/%s/shipyard", systemSymbol, waypoint)
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return universe.Shipyard{}, err
	}

	listings := make([]universe.ShipyardListing, len(out.Ships))
	for i, s := range out.Ships {
		modules := make([]string, len(s.Modules))
		for j, m := range s.Modules {
			modules[j] = m.Symbol
		}
		mounts := make([]string, len(s.Mounts))
		for j, m := range s.Mounts {
			mounts[j] = m.Symbol
		}
		listings[i] = universe.ShipyardListing{
			ShipType:      s.Type,
			Price:         s.PurchasePrice,
			FrameSymbol:   s.Frame.Symbol,
			ReactorSymbol: s.Reactor.Symbol,
			EngineSymbol:  s.Engine.Symbol,
			ModuleSymbols: modules,
			MountSymbols:  mounts,
		}
	}

	return universe.Shipyard{WaypointSymbol: out.WaypointSymbol, Listings: listings, Timestamp: time.Now().UTC()}, nil
}

func (c *Client) GetConstruction(ctx context.Context, token, systemSymbol, waypoint string) (universe.Construction, error) {
	var out struct {
		Symbol     string `json:"symbol"`
		Materials  []struct {
			TradeSymbol string `json:"tradeSymbol"`
			Required    int    `json:"required"`
			Fulfilled   int    `json:"fulfilled"`
		} `json:"materials"`
		IsComplete bool `json:"isComplete"`
	}
	path := fmt.Sprintf("/systems/%s/waypoints/%s/construction", systemSymbol, waypoint)
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return universe.Construction{}, err
	}
	materials := make([]universe.ConstructionMaterial, len(out.Materials))
	for i, m := range out.Materials {
		materials[i] = universe.ConstructionMaterial{TradeSymbol: m.TradeSymbol, Required: m.Required, Fulfilled: m.Fulfilled}
	}
	return universe.Construction{WaypointSymbol: out.Symbol, Materials: materials, IsComplete: out.IsComplete, Timestamp: time.Now().UTC()}, nil
}

func (c *Client) SupplyConstruction(ctx context.Context, token, systemSymbol, waypoint, shipSymbol, good string, units int) error {
	path := fmt.Sprintf("/systems/%s/waypoints/%s/construction/supply", systemSymbol, waypoint)
	body := map[string]any{"shipSymbol": shipSymbol, "tradeSymbol": good, "units": units}
	return c.do(ctx, "POST", path, token, body, nil)
}

func (c *Client) GetJumpGate(ctx context.Context, token, systemSymbol, waypoint string) (universe.JumpGate, error) {
	var out struct {
		Symbol      string `json:"symbol"`
		Connections []string `json:"connections"`
	}
	path := fmt.Sprintf("/systems/%s/waypoints/%s/jump-gate", systemSymbol, waypoint)
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return universe.JumpGate{}, err
	}
	return universe.JumpGate{
		WaypointSymbol:      out.Symbol,
		Connections:         out.Connections,
		IsConstructed:       true,
		AllConnectionsKnown: true,
	}, nil
}

// ListSystems fetches the universe's system topology stubs (symbol and
// coordinates only; waypoint detail is filled in separately per-system via
// ListWaypoints), paginated at 20/page.
func (c *Client) ListSystems(ctx context.Context, token string) ([]*universe.System, error) {
	type systemDTO struct {
		Symbol string  `json:"symbol"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
	dtos, err := fetchPaged(ctx, func(ctx context.Context, page, limit int) ([]systemDTO, error) {
		var out []systemDTO
		path := fmt.Sprintf("/systems?page=%d&limit=%d", page, limit)
		if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	systems := make([]*universe.System, len(dtos))
	for i, d := range dtos {
		systems[i] = &universe.System{Symbol: d.Symbol, X: d.X, Y: d.Y}
	}
	return systems, nil
}

// ListWaypoints fetches every waypoint in a system, paginated at 20/page.
func (c *Client) ListWaypoints(ctx context.Context, token, systemSymbol string) ([]*universe.WaypointDetails, error) {
	type waypointDTO struct {
		Symbol string `json:"symbol"`
		Type   string `json:"type"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Traits []struct{ Symbol string } `json:"traits"`
	}
	dtos, err := fetchPaged(ctx, func(ctx context.Context, page, limit int) ([]waypointDTO, error) {
		var out []waypointDTO
		path := fmt.Sprintf("/systems/%s/waypoints?page=%d&limit=%d", systemSymbol, page, limit)
		if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	details := make([]*universe.WaypointDetails, len(dtos))
	for i, d := range dtos {
		isMarket, isShipyard, uncharted := false, false, false
		for _, t := range d.Traits {
			switch t.Symbol {
			case "MARKETPLACE":
				isMarket = true
			case "SHIPYARD":
				isShipyard = true
			case "UNCHARTED":
				uncharted = true
			}
		}
		wp := &shared.Waypoint{Symbol: d.Symbol, X: d.X, Y: d.Y, SystemSymbol: shared.ExtractSystemSymbol(d.Symbol)}
		details[i] = &universe.WaypointDetails{
			Waypoint:    wp,
			Type:        universe.WaypointType(d.Type),
			IsMarket:    isMarket,
			IsShipyard:  isShipyard,
			IsUncharted: uncharted,
		}
	}
	return details, nil
}

// contract endpoints
type contractDTO struct {
	ID        string `json:"id"`
	Accepted  bool   `json:"accepted"`
	Fulfilled bool   `json:"fulfilled"`
	Terms     struct {
		Payment struct {
			OnAccepted  int64 `json:"onAccepted"`
			OnFulfilled int64 `json:"onFulfilled"`
		} `json:"payment"`
		Deliver []struct {
			TradeSymbol       string `json:"tradeSymbol"`
			DestinationSymbol string `json:"destinationSymbol"`
			UnitsRequired     int    `json:"unitsRequired"`
			UnitsFulfilled    int    `json:"unitsFulfilled"`
		} `json:"deliver"`
	} `json:"terms"`
}

func (d contractDTO) toDomain() contract.Contract {
	deliverables := make([]contract.Deliverable, len(d.Terms.Deliver))
	for i, del := range d.Terms.Deliver {
		deliverables[i] = contract.Deliverable{
			TradeSymbol:       del.TradeSymbol,
			DestinationSymbol: del.DestinationSymbol,
			UnitsRequired:     del.UnitsRequired,
			UnitsFulfilled:    del.UnitsFulfilled,
		}
	}
	return contract.Contract{
		ID:           d.ID,
		Accepted:     d.Accepted,
		Fulfilled:    d.Fulfilled,
		Deliverables: deliverables,
		OnAccepted:   d.Terms.Payment.OnAccepted,
		OnFulfilled:  d.Terms.Payment.OnFulfilled,
	}
}

func (c *Client) NegotiateContract(ctx context.Context, token, shipSymbol string) (contract.Contract, error) {
	var out struct {
		Contract contractDTO `json:"contract"`
	}
	if err := c.do(ctx, "POST", "/my/ships/"+shipSymbol+"/negotiate/contract", token, map[string]any{}, &out); err != nil {
		return contract.Contract{}, err
	}
	return out.Contract.toDomain(), nil
}

func (c *Client) AcceptContract(ctx context.Context, token, contractID string) (contract.Contract, error) {
	var out struct {
		Contract contractDTO `json:"contract"`
	}
	if err := c.do(ctx, "POST", "/my/contracts/"+contractID+"/accept", token, map[string]any{}, &out); err != nil {
		return contract.Contract{}, err
	}
	return out.Contract.toDomain(), nil
}

func (c *Client) DeliverContract(ctx context.Context, token, contractID, shipSymbol, good string, units int) (contract.Contract, error) {
	var out struct {
		Contract contractDTO `json:"contract"`
	}
	body := map[string]any{"shipSymbol": shipSymbol, "tradeSymbol": good, "units": units}
	if err := c.do(ctx, "POST", "/my/contracts/"+contractID+"/deliver", token, body, &out); err != nil {
		return contract.Contract{}, err
	}
	return out.Contract.toDomain(), nil
}

func (c *Client) FulfillContract(ctx context.Context, token, contractID string) error {
	return c.do(ctx, "POST", "/my/contracts/"+contractID+"/fulfill", token, map[string]any{}, nil)
}

func (c *Client) ListContracts(ctx context.Context, token string) ([]contract.Contract, error) {
	dtos, err := fetchPaged(ctx, func(ctx context.Context, page, limit int) ([]contractDTO, error) {
		var out []contractDTO
		path := fmt.Sprintf("/my/contracts?page=%d&limit=%d", page, limit)
		if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	contracts := make([]contract.Contract, len(dtos))
	for i, d := range dtos {
		contracts[i] = d.toDomain()
	}
	return contracts, nil
}

// ListFactions fetches every playable faction, paginated at 20/page.
func (c *Client) ListFactions(ctx context.Context, token string) ([]universe.Faction, error) {
	type factionDTO struct {
		Symbol      string `json:"symbol"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	dtos, err := fetchPaged(ctx, func(ctx context.Context, page, limit int) ([]factionDTO, error) {
		var out []factionDTO
		path := fmt.Sprintf("/factions?page=%d&limit=%d", page, limit)
		if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	factions := make([]universe.Faction, len(dtos))
	for i, d := range dtos {
		factions[i] = universe.Faction{Symbol: d.Symbol, Name: d.Name, Description: d.Description}
	}
	return factions, nil
}
