package ui

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/metrics"
	"github.com/Mohsinsiddi/minedash/internal/mining"
	"github.com/Mohsinsiddi/minedash/internal/query"
	"github.com/Mohsinsiddi/minedash/internal/sync"
	"github.com/Mohsinsiddi/minedash/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const copyResetAfter = 2 * time.Second

// Session is the connector surface the dashboard drives.
type Session interface {
	Events() <-chan wallet.SessionEvent
	Snapshot() wallet.WalletSession
	Signer() *wallet.Signer
	Connect(ctx context.Context)
	Reconnect(ctx context.Context) bool
	SwitchAccount(ctx context.Context, name string)
	Disconnect()
}

// MiningReader performs the contract's view calls.
type MiningReader interface {
	UserRecord(ctx context.Context, addr common.Address) (contract.UserRecord, error)
	PendingReward(ctx context.Context, addr common.Address) (*big.Int, error)
}

// TokenReader reads the reward token.
type TokenReader interface {
	Info(ctx context.Context) (contract.TokenInfo, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
}

// MiningWriter submits the contract's writes.
type MiningWriter interface {
	ActivateMining(ctx context.Context, referrer common.Address) (common.Hash, error)
	ClaimMiningRewards(ctx context.Context) (common.Hash, error)
}

// ReceiptWaiter blocks until a transaction is mined.
type ReceiptWaiter interface {
	WaitForReceipt(ctx context.Context, hash string, interval time.Duration) (*chain.TxReceipt, error)
}

// DashboardDeps wires the dashboard to the outside world. Token, Metrics,
// Log, Clipboard and OpenURL are optional.
type DashboardDeps struct {
	Session    Session
	Reader     MiningReader
	Token      TokenReader
	NewWriter  func(signer contract.TxSigner) (MiningWriter, error)
	Receipts   ReceiptWaiter
	Deployment config.Deployment
	Chain      *chain.Chain
	Wallets    []string // signing wallets, in switch order
	Catalog    Catalog
	Metrics    *metrics.Metrics
	Log        *zap.Logger
	Clipboard  func(string) error
	OpenURL    func(string)
	// AutoConnect connects the selected wallet at start when no cached
	// session exists.
	AutoConnect bool
}

// --- messages ---

type sessionMsg wallet.SessionEvent

type userResultMsg query.Result[*contract.UserRecord]

type pendingResultMsg query.Result[*big.Int]

type balanceResultMsg query.Result[*big.Int]

type tokenInfoMsg struct {
	info contract.TokenInfo
	err  error
}

type pollMsg query.Ticket

type submittedMsg struct {
	kind sync.Kind
	hash common.Hash
	err  error
}

type receiptMsg struct {
	kind    sync.Kind
	hash    common.Hash
	receipt *chain.TxReceipt
	err     error
}

type copyResetMsg int

type spinMsg struct{}

// sentTx is the most recent write the node accepted, with its sender.
type sentTx struct {
	hash common.Hash
	from string
}

// DashboardModel is the Bubble Tea model of the mining dashboard. Update is
// the only writer of its state.
type DashboardModel struct {
	deps DashboardDeps
	ctx  context.Context
	cat  Catalog
	log  *zap.Logger

	hydrated   bool
	width      int
	session    wallet.WalletSession
	sessionErr string

	user    *query.Query[*contract.UserRecord]
	pending *query.Query[*big.Int]
	balance *query.Query[*big.Int]
	token   *contract.TokenInfo

	tx     *sync.Controller
	lastTx *sentTx

	referrer    string
	referrerErr string

	copyLabel string
	copyGen   int
	flash     string
	frame     int
	quitting  bool
}

// NewDashboard builds the model. ctx bounds every request the dashboard
// starts and should be cancelled when the program exits.
func NewDashboard(ctx context.Context, deps DashboardDeps) *DashboardModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = copyToClipboard
	}
	if deps.OpenURL == nil {
		deps.OpenURL = openBrowser
	}
	cat := deps.Catalog
	if cat.DashboardTitle == "" {
		cat = CatalogFor("en")
		deps.Catalog = cat
	}
	m := &DashboardModel{
		deps:      deps,
		ctx:       ctx,
		cat:       cat,
		log:       deps.Log.Named("dashboard"),
		session:   deps.Session.Snapshot(),
		user:      query.New[*contract.UserRecord]("user"),
		pending:   query.New[*big.Int]("pending", query.WithInterval(deps.Deployment.PollInterval())),
		balance:   query.New[*big.Int]("balance"),
		copyLabel: cat.Copy,
	}
	m.tx = sync.NewController(func(err error) string {
		return contract.Humanize(err, cat.NotActivated)
	})
	return m
}

// RunDashboard runs the dashboard in the alternate screen until the user
// quits.
func RunDashboard(ctx context.Context, deps DashboardDeps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(NewDashboard(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.waitSession(), m.startSession(), spinTick(), m.fetchTokenInfo())
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.hydrated = true
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case spinMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, spinTick()

	case sessionMsg:
		m.session = msg.Session
		m.sessionErr = ""
		if msg.Err != nil {
			m.sessionErr = msg.Err.Error()
		}
		return m, tea.Batch(m.waitSession(), m.syncQueries())

	case userResultMsg:
		r := query.Result[*contract.UserRecord](msg)
		if !m.user.Resolve(r) {
			m.deps.Metrics.StaleRead(m.user.Name())
			return m, nil
		}
		if r.Err != nil {
			m.log.Warn("user record read failed", zap.Error(r.Err))
		}
		return m, m.syncQueries()

	case pendingResultMsg:
		r := query.Result[*big.Int](msg)
		if !m.pending.Resolve(r) {
			m.deps.Metrics.StaleRead(m.pending.Name())
			return m, nil
		}
		if r.Err != nil {
			m.log.Warn("pending reward read failed", zap.Error(r.Err))
		} else if r.Value != nil {
			f, _ := new(big.Rat).SetFrac(r.Value, chain.MustParseEther("1")).Float64()
			m.deps.Metrics.SetPendingReward(f)
		}
		return m, nil

	case balanceResultMsg:
		r := query.Result[*big.Int](msg)
		if m.balance.Resolve(r) && r.Err != nil {
			m.log.Warn("token balance read failed", zap.Error(r.Err))
		}
		return m, nil

	case tokenInfoMsg:
		if msg.err != nil {
			m.log.Warn("token info read failed", zap.Error(msg.err))
			return m, nil
		}
		info := msg.info
		m.token = &info
		return m, nil

	case pollMsg:
		t := query.Ticket(msg)
		if !m.pending.Valid(t) {
			return m, nil
		}
		return m, tea.Batch(m.fetchPending(), m.schedulePoll(t))

	case submittedMsg:
		m.deps.Metrics.ObserveWrite(string(msg.kind), msg.err)
		if msg.err != nil {
			m.log.Warn("write failed", zap.String("kind", string(msg.kind)), zap.Error(msg.err))
			m.tx.Failed(msg.kind, msg.err)
			return m, nil
		}
		m.tx.Submitted(msg.kind, msg.hash)
		m.lastTx = &sentTx{hash: msg.hash, from: m.address()}
		return m, m.waitReceipt(msg.kind, msg.hash)

	case receiptMsg:
		return m, m.handleReceipt(msg)

	case copyResetMsg:
		if int(msg) == m.copyGen {
			m.copyLabel = m.cat.Copy
		}
		return m, nil
	}
	return m, nil
}

// Screen returns the screen the current state composes to.
func (m *DashboardModel) Screen() Screen {
	return Compose(m.viewInput())
}

func (m *DashboardModel) viewInput() ViewInput {
	return ViewInput{
		Hydrated:    m.hydrated,
		Status:      m.session.Status,
		ChainID:     m.session.ChainID,
		WantChainID: m.deps.Deployment.ChainID,
		Activated:   m.activated(),
	}
}

func (m *DashboardModel) activated() bool {
	u, ok := m.user.Value()
	return ok && u != nil && u.IsActivated
}

func (m *DashboardModel) address() string {
	if m.session.Status != wallet.StatusConnected || m.session.Address == nil {
		return ""
	}
	return m.session.Address.Hex()
}

// syncQueries re-keys every read from the session and the last user
// record and returns the fetches that became due.
func (m *DashboardModel) syncQueries() tea.Cmd {
	addr := m.address()
	var cmds []tea.Cmd
	if m.user.SetKey(addr, addr != "") {
		cmds = append(cmds, m.fetchUser())
	}
	if m.pending.SetKey(addr, addr != "" && m.activated()) {
		t, _ := m.pending.Schedule()
		cmds = append(cmds, m.fetchPending(), m.schedulePoll(t))
	}
	if m.deps.Token != nil && m.balance.SetKey(addr, addr != "") {
		cmds = append(cmds, m.fetchBalance())
	}
	return tea.Batch(cmds...)
}

// --- keys ---

func (m *DashboardModel) handleKey(k tea.KeyMsg) tea.Cmd {
	m.flash = ""
	key := k.String()
	if key == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}

	screen := m.Screen()
	if screen == ScreenActivation {
		return m.handleActivationKey(k)
	}

	switch key {
	case "q", "esc":
		m.quitting = true
		return tea.Quit
	case "c":
		switch screen {
		case ScreenWelcome:
			m.deps.Session.Connect(m.ctx)
		case ScreenDashboard:
			return m.claim()
		}
	case "s":
		if screen != ScreenLoading {
			return m.switchWallet()
		}
	case "d":
		if screen == ScreenDashboard || screen == ScreenWrongNetwork {
			m.deps.Session.Disconnect()
		}
	case "y":
		if screen == ScreenDashboard {
			return m.copyAddress()
		}
	case "o":
		if screen == ScreenDashboard {
			m.openExplorer()
		}
	}
	return nil
}

// openExplorer opens the last transaction sent from the connected address,
// or the address page when there is none.
func (m *DashboardModel) openExplorer() {
	if m.deps.Chain == nil {
		return
	}
	mode, addr := m.deps.Deployment.Mode, m.address()
	if m.lastTx != nil && m.lastTx.from == addr {
		m.deps.OpenURL(m.deps.Chain.TxURL(mode, m.lastTx.hash.Hex()))
		return
	}
	m.deps.OpenURL(m.deps.Chain.AddressURL(mode, addr))
}

func (m *DashboardModel) handleActivationKey(k tea.KeyMsg) tea.Cmd {
	switch k.Type {
	case tea.KeyEsc:
		m.quitting = true
		return tea.Quit
	case tea.KeyEnter:
		return m.activate()
	case tea.KeyCtrlD:
		m.deps.Session.Disconnect()
		return nil
	case tea.KeyCtrlS:
		return m.switchWallet()
	}

	if m.tx.State(sync.KindActivate).Pending() {
		return nil
	}
	switch k.Type {
	case tea.KeyBackspace:
		if r := []rune(m.referrer); len(r) > 0 {
			m.referrer = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.referrer = ""
	case tea.KeyRunes, tea.KeySpace:
		m.referrer += string(k.Runes)
	default:
		return nil
	}
	m.validateReferrer()
	return nil
}

func (m *DashboardModel) validateReferrer() bool {
	if _, err := mining.ValidateReferrer(m.referrer); err != nil {
		m.referrerErr = fmt.Sprintf(m.cat.ReferrerInvalid, m.currency())
		return false
	}
	m.referrerErr = ""
	return true
}

// ActivateDisabled reports whether the activation action is unavailable.
func (m *DashboardModel) ActivateDisabled() bool {
	return m.tx.State(sync.KindActivate).Pending() || m.referrerErr != ""
}

// ClaimDisabled reports whether the claim action is unavailable.
func (m *DashboardModel) ClaimDisabled() bool {
	v, _ := m.pending.Value()
	return m.tx.State(sync.KindClaim).Pending() || !mining.CanClaim(v)
}

func (m *DashboardModel) activate() tea.Cmd {
	if m.ActivateDisabled() || !m.validateReferrer() {
		return nil
	}
	referrer, _ := mining.ValidateReferrer(m.referrer)
	signer := m.deps.Session.Signer()
	if signer == nil {
		m.flash = m.cat.NoSigner
		return nil
	}
	if err := m.tx.Submit(sync.KindActivate); err != nil {
		return nil
	}
	return m.submit(sync.KindActivate, signer, func(ctx context.Context, w MiningWriter) (common.Hash, error) {
		return w.ActivateMining(ctx, referrer)
	})
}

func (m *DashboardModel) claim() tea.Cmd {
	if m.ClaimDisabled() {
		return nil
	}
	signer := m.deps.Session.Signer()
	if signer == nil {
		m.flash = m.cat.NoSigner
		return nil
	}
	if err := m.tx.Submit(sync.KindClaim); err != nil {
		return nil
	}
	return m.submit(sync.KindClaim, signer, func(ctx context.Context, w MiningWriter) (common.Hash, error) {
		return w.ClaimMiningRewards(ctx)
	})
}

func (m *DashboardModel) switchWallet() tea.Cmd {
	names := m.deps.Wallets
	if len(names) == 0 {
		return nil
	}
	next := names[0]
	for i, n := range names {
		if n == m.session.Wallet {
			next = names[(i+1)%len(names)]
			break
		}
	}
	m.deps.Session.SwitchAccount(m.ctx, next)
	return nil
}

func (m *DashboardModel) copyAddress() tea.Cmd {
	addr := m.address()
	if addr == "" {
		return nil
	}
	if err := m.deps.Clipboard(addr); err != nil {
		m.log.Warn("clipboard", zap.Error(err))
		m.flash = m.cat.CopyFailed
		return nil
	}
	m.copyLabel = m.cat.Copied
	m.copyGen++
	gen := m.copyGen
	return tea.Tick(copyResetAfter, func(time.Time) tea.Msg { return copyResetMsg(gen) })
}

func (m *DashboardModel) handleReceipt(msg receiptMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, chain.ErrReverted):
		m.deps.Metrics.ObserveConfirmation(string(msg.kind), false)
		m.tx.Reverted(msg.kind, msg.hash)
		return nil
	case msg.err != nil:
		// only a cancelled context ends the wait early
		m.log.Debug("receipt wait ended", zap.Error(msg.err))
		return nil
	}

	m.deps.Metrics.ObserveConfirmation(string(msg.kind), true)
	var cmds []tea.Cmd
	for _, e := range m.tx.Confirmed(msg.kind, msg.hash) {
		switch e {
		case sync.RefetchUserRecord:
			if m.user.Refetch() {
				cmds = append(cmds, m.fetchUser())
			}
		case sync.RefetchPendingReward:
			if m.pending.Refetch() {
				cmds = append(cmds, m.fetchPending())
			}
		case sync.ResetActivate:
			m.referrer = ""
			m.referrerErr = ""
		}
	}
	if m.deps.Token != nil && m.balance.Refetch() {
		cmds = append(cmds, m.fetchBalance())
	}
	return tea.Batch(cmds...)
}

// --- commands ---

func (m *DashboardModel) waitSession() tea.Cmd {
	events := m.deps.Session.Events()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case ev := <-events:
			return sessionMsg(ev)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *DashboardModel) startSession() tea.Cmd {
	s, ctx, auto := m.deps.Session, m.ctx, m.deps.AutoConnect
	return func() tea.Msg {
		if !s.Reconnect(ctx) && auto {
			s.Connect(ctx)
		}
		return nil
	}
}

func (m *DashboardModel) fetchUser() tea.Cmd {
	req := m.user.Begin()
	reader, met, ctx := m.deps.Reader, m.deps.Metrics, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
		defer cancel()
		start := time.Now()
		u, err := reader.UserRecord(ctx, common.HexToAddress(req.Key))
		met.ObserveRead("user", time.Since(start), err)
		if err != nil {
			return userResultMsg{Request: req, Err: err}
		}
		return userResultMsg{Request: req, Value: &u}
	}
}

func (m *DashboardModel) fetchPending() tea.Cmd {
	req := m.pending.Begin()
	reader, met, ctx := m.deps.Reader, m.deps.Metrics, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
		defer cancel()
		start := time.Now()
		v, err := reader.PendingReward(ctx, common.HexToAddress(req.Key))
		met.ObserveRead("pending", time.Since(start), err)
		return pendingResultMsg{Request: req, Value: v, Err: err}
	}
}

func (m *DashboardModel) fetchBalance() tea.Cmd {
	req := m.balance.Begin()
	tok, met, ctx := m.deps.Token, m.deps.Metrics, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
		defer cancel()
		start := time.Now()
		v, err := tok.BalanceOf(ctx, common.HexToAddress(req.Key))
		met.ObserveRead("balance", time.Since(start), err)
		return balanceResultMsg{Request: req, Value: v, Err: err}
	}
}

func (m *DashboardModel) fetchTokenInfo() tea.Cmd {
	tok, ctx := m.deps.Token, m.ctx
	if tok == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
		defer cancel()
		info, err := tok.Info(ctx)
		return tokenInfoMsg{info: info, err: err}
	}
}

func (m *DashboardModel) schedulePoll(t query.Ticket) tea.Cmd {
	d := m.pending.Interval()
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return pollMsg(t) })
}

func (m *DashboardModel) submit(kind sync.Kind, signer *wallet.Signer, send func(context.Context, MiningWriter) (common.Hash, error)) tea.Cmd {
	newWriter, ctx := m.deps.NewWriter, m.ctx
	return func() tea.Msg {
		w, err := newWriter(signer)
		if err != nil {
			return submittedMsg{kind: kind, err: err}
		}
		ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
		defer cancel()
		hash, err := send(ctx, w)
		return submittedMsg{kind: kind, hash: hash, err: err}
	}
}

func (m *DashboardModel) waitReceipt(kind sync.Kind, hash common.Hash) tea.Cmd {
	rw, ctx := m.deps.Receipts, m.ctx
	return func() tea.Msg {
		r, err := rw.WaitForReceipt(ctx, hash.Hex(), config.ReceiptPoll)
		return receiptMsg{kind: kind, hash: hash, receipt: r, err: err}
	}
}

func spinTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

// --- view ---

func (m *DashboardModel) currency() string {
	if m.deps.Chain == nil {
		return "ETH"
	}
	return m.deps.Chain.Currency(m.deps.Deployment.Mode)
}

func (m *DashboardModel) networkLabel() string {
	if m.deps.Chain == nil {
		return fmt.Sprintf("chain %d", m.deps.Deployment.ChainID)
	}
	return m.deps.Chain.Label(m.deps.Deployment.Mode)
}

func (m *DashboardModel) View() string {
	if m.quitting {
		return ""
	}
	screen := m.Screen()

	var sb strings.Builder
	sb.WriteString(m.header(screen) + "\n")

	var body, keys string
	switch screen {
	case ScreenLoading:
		body = m.viewLoading()
	case ScreenWelcome:
		body, keys = m.viewWelcome(), m.cat.KeysDisconnected
	case ScreenWrongNetwork:
		body = StyleError.Render(fmt.Sprintf(m.cat.WrongNetwork, m.networkLabel()))
		keys = "[ d ] " + m.cat.Disconnect + "   [ q ] quit"
	case ScreenActivation:
		body, keys = m.viewActivation(), m.cat.KeysActivation
	case ScreenDashboard:
		body, keys = m.viewDashboard(), m.cat.KeysDashboard
	}
	sb.WriteString(m.box().Render(body) + "\n")

	if m.flash != "" {
		sb.WriteString(Warn(m.flash) + "\n")
	}
	if keys != "" {
		sb.WriteString(StyleMeta.Render(keys) + "\n")
	}
	return sb.String()
}

func (m *DashboardModel) box() lipgloss.Style {
	w := 72
	if m.width > 0 && m.width-4 < w {
		w = m.width - 4
	}
	return StyleBorder.Width(w)
}

// header mirrors a wallet button: nothing until hydrated, then the network
// and short address when connected.
func (m *DashboardModel) header(screen Screen) string {
	title := StyleTitle.Render("⛏  minedash · " + m.deps.Deployment.Name)
	if !m.hydrated || m.session.Status != wallet.StatusConnected || m.session.Address == nil {
		return title
	}
	label := m.networkLabel()
	if c, err := chain.NewRegistry().GetByChainID(m.session.ChainID); err == nil && m.session.ChainID != m.deps.Deployment.ChainID {
		label = c.DisplayName
	}
	chip := ChainName(label) + ": " + Addr(TruncateAddr(m.session.Address.Hex()))
	if m.session.Wallet != "" {
		chip += " " + Meta("("+m.session.Wallet+")")
	}
	return title + "\n" + chip
}

func (m *DashboardModel) viewLoading() string {
	spin := StyleChain.Render(spinnerFrames[m.frame])
	text := m.cat.Loading
	if m.hydrated {
		switch m.session.Status {
		case wallet.StatusConnecting:
			text = m.cat.Connecting
		case wallet.StatusReconnecting:
			text = m.cat.Reconnecting
		}
	}
	return spin + " " + StyleMeta.Render(text)
}

func (m *DashboardModel) viewWelcome() string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(m.cat.WelcomeTitle) + "\n\n")
	sb.WriteString(StyleMeta.Render(m.cat.WelcomeHint))
	if m.sessionErr != "" {
		sb.WriteString("\n\n" + Err(m.sessionErr))
	}
	return sb.String()
}

func (m *DashboardModel) viewActivation() string {
	fee := m.deps.Deployment.ActivationFee
	cur := m.currency()
	st := m.tx.State(sync.KindActivate)

	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(m.cat.ActivateTitle) + "\n\n")
	sb.WriteString(fmt.Sprintf(m.cat.ActivateBlurb, fee, cur) + "\n\n")

	input := StyleAddress.Render(m.referrer) + "█"
	if m.referrer == "" {
		input = StyleDim.Render(m.cat.ReferrerPrompt) + "█"
	}
	sb.WriteString("> " + input + "\n")
	if m.referrerErr != "" {
		sb.WriteString(StyleError.Render(m.referrerErr) + "\n")
	}
	sb.WriteString("\n")

	label := fmt.Sprintf(m.cat.ActivateButton, fee, cur)
	if st.Pending() {
		label = StyleChain.Render(spinnerFrames[m.frame]) + " " + m.cat.Activating
	}
	sb.WriteString(button(label, m.ActivateDisabled()) + "\n")

	if st.Hash != nil {
		sb.WriteString("\n" + Meta(m.cat.TxSent+" ") + Addr(st.Hash.Hex()) + "\n")
	}
	if st.Phase == sync.PhaseFailed {
		sb.WriteString("\n" + StyleError.Render(m.cat.ActivateFailed) + " " + m.txErr(st) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *DashboardModel) viewDashboard() string {
	u, _ := m.user.Value()
	if u == nil {
		u = &contract.UserRecord{}
	}
	pending, known := m.pending.Value()
	if !known {
		pending = nil
	}
	cur := m.currency()
	perRef, err := chain.ParseEther(m.deps.Deployment.L1RewardPerReferral)
	if err != nil {
		perRef = new(big.Int)
	}

	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(m.cat.DashboardTitle) + "\n\n")
	sb.WriteString(StyleSuccess.Render(m.cat.StatusActive) + "\n")
	sb.WriteString(fmt.Sprintf(m.cat.Power, Val(mining.FormatCount(u.MiningPower))) + "\n")
	sb.WriteString(fmt.Sprintf(m.cat.Direct, Val(mining.FormatCount(u.DirectReferrals))) + "\n")
	if l, err := contract.LayoutFor(m.deps.Deployment.Layout); err == nil && l.Has(contract.FieldIndirectReferrals) {
		sb.WriteString(fmt.Sprintf(m.cat.Indirect, Val(mining.FormatCount(u.IndirectReferrals))) + "\n")
	}
	sb.WriteString(fmt.Sprintf(m.cat.L1Estimate, Val(mining.FormatL1(u.DirectReferrals, perRef)), cur) + "\n")
	sb.WriteString(Meta(m.cat.L2Note) + "\n")

	sb.WriteString(divider() + "\n")
	sb.WriteString(m.cat.PendingLabel + " " + StyleWarning.Render(mining.FormatReward(pending)) + "\n")
	if m.token != nil {
		bal, ok := m.balance.Value()
		if ok {
			sb.WriteString(Meta(fmt.Sprintf(m.cat.TokenBalance, m.token.Symbol)) + " " +
				Val(chain.FormatUnits(bal, int(m.token.Decimals), 6)) + "\n")
		}
	}
	st := m.tx.State(sync.KindClaim)
	label := m.cat.ClaimButton
	if st.Pending() {
		label = StyleChain.Render(spinnerFrames[m.frame]) + " " + m.cat.Claiming
	}
	sb.WriteString(button(label, m.ClaimDisabled()) + "\n")
	if st.Hash != nil {
		line := Meta(m.cat.TxSent+" ") + Addr(st.Hash.Hex())
		if st.Confirmed {
			line += " " + Success(m.cat.Confirmed)
		}
		sb.WriteString(line + "\n")
	}
	if st.Phase == sync.PhaseFailed {
		sb.WriteString(StyleError.Render(m.cat.ClaimFailed) + " " + m.txErr(st) + "\n")
	}

	sb.WriteString(divider() + "\n")
	sb.WriteString(StyleHeader.Render(m.cat.InviteTitle) + "\n")
	sb.WriteString(Meta(m.cat.InviteBlurb) + "\n")
	sb.WriteString(Addr(m.address()) + "  " + button(m.copyLabel, false))
	return sb.String()
}

func (m *DashboardModel) txErr(st sync.TxState) string {
	if st.Err == "transaction reverted" {
		return m.cat.TxReverted
	}
	return trimErr(st.Err, 160)
}

func button(label string, disabled bool) string {
	if disabled {
		return StyleDim.Render("[ " + label + " ]")
	}
	return StyleSelected.Render("[ " + label + " ]")
}

func divider() string {
	return StyleMeta.Render(strings.Repeat("─", 40))
}
