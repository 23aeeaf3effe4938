package contracts

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// poolKeyComponents is the PoolKey tuple shared by every mutating AMM call.
const poolKeyComponents = `[
  {"internalType": "uint256", "name": "id0", "type": "uint256"},
  {"internalType": "uint256", "name": "id1", "type": "uint256"},
  {"internalType": "address", "name": "token0", "type": "address"},
  {"internalType": "address", "name": "token1", "type": "address"},
  {"internalType": "uint96", "name": "swapFee", "type": "uint96"}
]`

var ammABIJSON = `[
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "pools",
    "outputs": [
      {"internalType": "uint112", "name": "reserve0", "type": "uint112"},
      {"internalType": "uint112", "name": "reserve1", "type": "uint112"},
      {"internalType": "uint32", "name": "blockTimestampLast", "type": "uint32"},
      {"internalType": "uint256", "name": "price0CumulativeLast", "type": "uint256"},
      {"internalType": "uint256", "name": "price1CumulativeLast", "type": "uint256"},
      {"internalType": "uint256", "name": "kLast", "type": "uint256"},
      {"internalType": "uint256", "name": "supply", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "owner", "type": "address"},
      {"internalType": "uint256", "name": "id", "type": "uint256"}
    ],
    "name": "balanceOf",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "owner", "type": "address"},
      {"internalType": "address", "name": "spender", "type": "address"}
    ],
    "name": "isOperator",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"components": ` + poolKeyComponents + `, "internalType": "struct PoolKey", "name": "poolKey", "type": "tuple"},
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "bool", "name": "zeroForOne", "type": "bool"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactIn",
    "outputs": [{"internalType": "uint256", "name": "amountOut", "type": "uint256"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"components": ` + poolKeyComponents + `, "internalType": "struct PoolKey", "name": "poolKey", "type": "tuple"},
      {"internalType": "uint256", "name": "amount0Desired", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1Desired", "type": "uint256"},
      {"internalType": "uint256", "name": "amount0Min", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1Min", "type": "uint256"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "addLiquidity",
    "outputs": [
      {"internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1", "type": "uint256"},
      {"internalType": "uint256", "name": "liquidity", "type": "uint256"}
    ],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"components": ` + poolKeyComponents + `, "internalType": "struct PoolKey", "name": "poolKey", "type": "tuple"},
      {"internalType": "uint256", "name": "liquidity", "type": "uint256"},
      {"internalType": "uint256", "name": "amount0Min", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1Min", "type": "uint256"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "removeLiquidity",
    "outputs": [
      {"internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1", "type": "uint256"}
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "bytes[]", "name": "data", "type": "bytes[]"}],
    "name": "multicall",
    "outputs": [{"internalType": "bytes[]", "name": "results", "type": "bytes[]"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "operator", "type": "address"},
      {"internalType": "bool", "name": "approved", "type": "bool"}
    ],
    "name": "setOperator",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var coinsABIJSON = `[
  {
    "inputs": [
      {"internalType": "address", "name": "owner", "type": "address"},
      {"internalType": "address", "name": "spender", "type": "address"}
    ],
    "name": "isOperator",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "operator", "type": "address"},
      {"internalType": "bool", "name": "approved", "type": "bool"}
    ],
    "name": "setOperator",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "id", "type": "uint256"}],
    "name": "name",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "id", "type": "uint256"}],
    "name": "symbol",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "id", "type": "uint256"}],
    "name": "decimals",
    "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "owner", "type": "address"},
      {"internalType": "uint256", "name": "id", "type": "uint256"}
    ],
    "name": "balanceOf",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var helperABIJSON = `[
  {
    "inputs": [
      {"components": ` + poolKeyComponents + `, "internalType": "struct PoolKey", "name": "poolKey", "type": "tuple"},
      {"internalType": "uint256", "name": "amount0Desired", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1Desired", "type": "uint256"}
    ],
    "name": "calculateRequiredETH",
    "outputs": [
      {"internalType": "uint256", "name": "ethRequired", "type": "uint256"},
      {"internalType": "uint256", "name": "actualAmount0", "type": "uint256"},
      {"internalType": "uint256", "name": "actualAmount1", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256[]", "name": "ids", "type": "uint256[]"}],
    "name": "getCoinsData",
    "outputs": [
      {
        "components": [
          {"internalType": "uint256", "name": "coinId", "type": "uint256"},
          {"internalType": "string", "name": "name", "type": "string"},
          {"internalType": "string", "name": "symbol", "type": "string"},
          {"internalType": "uint8", "name": "decimals", "type": "uint8"},
          {"internalType": "uint112", "name": "reserve0", "type": "uint112"},
          {"internalType": "uint112", "name": "reserve1", "type": "uint112"},
          {"internalType": "uint256", "name": "poolId", "type": "uint256"},
          {"internalType": "uint256", "name": "liquidity", "type": "uint256"}
        ],
        "internalType": "struct CoinData[]",
        "name": "",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	ammABI     abi.ABI
	ammABIOnce sync.Once
	ammABIErr  error

	coinsABI     abi.ABI
	coinsABIOnce sync.Once
	coinsABIErr  error

	helperABI     abi.ABI
	helperABIOnce sync.Once
	helperABIErr  error
)

// AMMABI returns the parsed AMM singleton ABI.
func AMMABI() (abi.ABI, error) {
	ammABIOnce.Do(func() {
		ammABI, ammABIErr = abi.JSON(strings.NewReader(ammABIJSON))
	})
	return ammABI, ammABIErr
}

// CoinsABI returns the parsed multi-token registry ABI.
func CoinsABI() (abi.ABI, error) {
	coinsABIOnce.Do(func() {
		coinsABI, coinsABIErr = abi.JSON(strings.NewReader(coinsABIJSON))
	})
	return coinsABI, coinsABIErr
}

// HelperABI returns the parsed metadata/liquidity helper ABI.
func HelperABI() (abi.ABI, error) {
	helperABIOnce.Do(func() {
		helperABI, helperABIErr = abi.JSON(strings.NewReader(helperABIJSON))
	})
	return helperABI, helperABIErr
}
